package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetByID retrieves a payment by its ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	query := `
		SELECT id, billing_id, amount, payment_method, card_installments, card_interest_rate,
		       bank_name, receipt_url, notes, status, payment_date, created_at, updated_at
		FROM payments
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &payment, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment by id: %w", err)
	}

	return &payment, nil
}

// GetByBillingID retrieves all payments registered against a billing
func (r *PaymentRepository) GetByBillingID(ctx context.Context, billingID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	query := `
		SELECT id, billing_id, amount, payment_method, card_installments, card_interest_rate,
		       bank_name, receipt_url, notes, status, payment_date, created_at, updated_at
		FROM payments
		WHERE billing_id = $1
		ORDER BY created_at ASC
	`

	err := r.db.SelectContext(ctx, &payments, query, billingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments by billing id: %w", err)
	}

	return payments, nil
}

// CreateTx inserts a payment inside an existing transaction
func (r *PaymentRepository) CreateTx(tx *sqlx.Tx, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := `
		INSERT INTO payments (
			id, billing_id, amount, payment_method, card_installments, card_interest_rate,
			bank_name, receipt_url, notes, status, payment_date, created_at, updated_at
		) VALUES (
			:id, :billing_id, :amount, :payment_method, :card_installments, :card_interest_rate,
			:bank_name, :receipt_url, :notes, :status, :payment_date, :created_at, :updated_at
		)
	`

	_, err := tx.NamedExec(query, payment)
	if err != nil {
		return fmt.Errorf("failed to create payment in transaction: %w", err)
	}

	return nil
}

// UpdateTx rewrites a payment's fields inside an existing transaction. The
// caller merges unchanged fields first (PATCH semantics live in the
// service layer).
func (r *PaymentRepository) UpdateTx(tx *sqlx.Tx, payment *models.Payment) error {
	payment.UpdatedAt = time.Now()

	query := `
		UPDATE payments SET
			amount = :amount,
			payment_method = :payment_method,
			card_installments = :card_installments,
			card_interest_rate = :card_interest_rate,
			bank_name = :bank_name,
			receipt_url = :receipt_url,
			notes = :notes,
			status = :status,
			payment_date = :payment_date,
			updated_at = :updated_at
		WHERE id = :id
	`

	_, err := tx.NamedExec(query, payment)
	if err != nil {
		return fmt.Errorf("failed to update payment in transaction: %w", err)
	}

	return nil
}

// UpdateStatusTx updates only a payment's status inside an existing transaction
func (r *PaymentRepository) UpdateStatusTx(tx *sqlx.Tx, id uuid.UUID, status models.PaymentStatus) error {
	query := `UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2`

	_, err := tx.Exec(query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status in transaction: %w", err)
	}

	return nil
}
