package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type InstallmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

// GetByID retrieves an installment by its ID
func (r *InstallmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Installment, error) {
	var installment models.Installment
	query := `
		SELECT id, payment_id, installment_number, installment_amount, due_date,
		       status, receipt_url, payment_date, notes, created_at, updated_at
		FROM payment_installments
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &installment, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get installment by id: %w", err)
	}

	return &installment, nil
}

// GetByPaymentID retrieves a payment's installments in schedule order
func (r *InstallmentRepository) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]models.Installment, error) {
	var installments []models.Installment
	query := `
		SELECT id, payment_id, installment_number, installment_amount, due_date,
		       status, receipt_url, payment_date, notes, created_at, updated_at
		FROM payment_installments
		WHERE payment_id = $1
		ORDER BY installment_number ASC
	`

	err := r.db.SelectContext(ctx, &installments, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments by payment id: %w", err)
	}

	return installments, nil
}

// GetByBillingIDTx loads every installment under every payment of a billing
// inside an existing transaction. The reconciliation pass is a global
// aggregate over this set, never an incremental update.
func (r *InstallmentRepository) GetByBillingIDTx(tx *sqlx.Tx, billingID uuid.UUID) ([]models.Installment, error) {
	var installments []models.Installment
	query := `
		SELECT i.id, i.payment_id, i.installment_number, i.installment_amount, i.due_date,
		       i.status, i.receipt_url, i.payment_date, i.notes, i.created_at, i.updated_at
		FROM payment_installments i
		JOIN payments p ON p.id = i.payment_id
		WHERE p.billing_id = $1
		ORDER BY i.created_at ASC, i.installment_number ASC
	`

	err := tx.Select(&installments, query, billingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments by billing id: %w", err)
	}

	return installments, nil
}

// GetByPaymentIDTx retrieves a payment's installments inside an existing transaction
func (r *InstallmentRepository) GetByPaymentIDTx(tx *sqlx.Tx, paymentID uuid.UUID) ([]models.Installment, error) {
	var installments []models.Installment
	query := `
		SELECT id, payment_id, installment_number, installment_amount, due_date,
		       status, receipt_url, payment_date, notes, created_at, updated_at
		FROM payment_installments
		WHERE payment_id = $1
		ORDER BY installment_number ASC
	`

	err := tx.Select(&installments, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments by payment id: %w", err)
	}

	return installments, nil
}

// CreateTx inserts an installment inside an existing transaction
func (r *InstallmentRepository) CreateTx(tx *sqlx.Tx, installment *models.Installment) error {
	if installment.ID == uuid.Nil {
		installment.ID = uuid.New()
	}
	now := time.Now()
	installment.CreatedAt = now
	installment.UpdatedAt = now

	query := `
		INSERT INTO payment_installments (
			id, payment_id, installment_number, installment_amount, due_date,
			status, receipt_url, payment_date, notes, created_at, updated_at
		) VALUES (
			:id, :payment_id, :installment_number, :installment_amount, :due_date,
			:status, :receipt_url, :payment_date, :notes, :created_at, :updated_at
		)
	`

	_, err := tx.NamedExec(query, installment)
	if err != nil {
		return fmt.Errorf("failed to create installment in transaction: %w", err)
	}

	return nil
}

// UpdateTx rewrites an installment's status and settlement fields inside an
// existing transaction
func (r *InstallmentRepository) UpdateTx(tx *sqlx.Tx, installment *models.Installment) error {
	installment.UpdatedAt = time.Now()

	query := `
		UPDATE payment_installments SET
			status = :status,
			receipt_url = :receipt_url,
			payment_date = :payment_date,
			notes = :notes,
			updated_at = :updated_at
		WHERE id = :id
	`

	_, err := tx.NamedExec(query, installment)
	if err != nil {
		return fmt.Errorf("failed to update installment in transaction: %w", err)
	}

	return nil
}

// DeleteByPaymentIDTx removes all installments under a payment inside an
// existing transaction (full-replace path)
func (r *InstallmentRepository) DeleteByPaymentIDTx(tx *sqlx.Tx, paymentID uuid.UUID) error {
	_, err := tx.Exec(`DELETE FROM payment_installments WHERE payment_id = $1`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete installments by payment id: %w", err)
	}

	return nil
}

// OverdueInstallment is an unpaid installment past its due date joined with
// the client who owes it.
type OverdueInstallment struct {
	models.Installment
	ClientID uuid.UUID `db:"client_id"`
}

// GetOverdue retrieves pending installments whose due date has passed and
// that have not been reminded yet, together with the owning client. A row
// leaves this set once MarkReminded stamps it, so each overdue installment
// produces exactly one reminder.
func (r *InstallmentRepository) GetOverdue(ctx context.Context, asOf time.Time) ([]OverdueInstallment, error) {
	var installments []OverdueInstallment
	query := `
		SELECT i.id, i.payment_id, i.installment_number, i.installment_amount, i.due_date,
		       i.status, i.receipt_url, i.payment_date, i.notes, i.reminder_sent_at,
		       i.created_at, i.updated_at, c.client_id
		FROM payment_installments i
		JOIN payments p ON p.id = i.payment_id
		JOIN billing b ON b.id = p.billing_id
		JOIN claims c ON c.id = b.claim_id
		WHERE i.status = $1 AND i.due_date IS NOT NULL AND i.due_date < $2
		  AND i.reminder_sent_at IS NULL
		ORDER BY i.due_date ASC
	`

	err := r.db.SelectContext(ctx, &installments, query, models.InstallmentPending, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue installments: %w", err)
	}

	return installments, nil
}

// MarkReminded stamps an installment as reminded so the next sweep skips it
func (r *InstallmentRepository) MarkReminded(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE payment_installments SET reminder_sent_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark installment reminded: %w", err)
	}

	return nil
}
