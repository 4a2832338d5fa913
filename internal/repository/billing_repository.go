package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BillingRepository struct {
	db *sqlx.DB
}

func NewBillingRepository(db *sqlx.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// BeginTransaction starts a transaction for billing mutation flows
func (r *BillingRepository) BeginTransaction() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

// GetByID retrieves a billing by its ID
func (r *BillingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Billing, error) {
	var billing models.Billing
	query := `
		SELECT id, claim_id, subtotal, total_amount, paid_amount, balance, status,
		       created_at, updated_at
		FROM billing
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &billing, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get billing by id: %w", err)
	}

	return &billing, nil
}

// GetByClaimID retrieves the billing attached to a claim, if any
func (r *BillingRepository) GetByClaimID(ctx context.Context, claimID uuid.UUID) (*models.Billing, error) {
	var billing models.Billing
	query := `
		SELECT id, claim_id, subtotal, total_amount, paid_amount, balance, status,
		       created_at, updated_at
		FROM billing
		WHERE claim_id = $1
	`

	err := r.db.GetContext(ctx, &billing, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get billing by claim id: %w", err)
	}

	return &billing, nil
}

// GetAll retrieves all billings ordered by creation date
func (r *BillingRepository) GetAll(ctx context.Context) ([]models.Billing, error) {
	var billings []models.Billing
	query := `
		SELECT id, claim_id, subtotal, total_amount, paid_amount, balance, status,
		       created_at, updated_at
		FROM billing
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &billings, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get billings: %w", err)
	}

	return billings, nil
}

// GetForUpdateTx loads a billing row with a row lock so the reconciliation
// read-modify-write cannot race a concurrent installment update.
func (r *BillingRepository) GetForUpdateTx(tx *sqlx.Tx, id uuid.UUID) (*models.Billing, error) {
	var billing models.Billing
	query := `
		SELECT id, claim_id, subtotal, total_amount, paid_amount, balance, status,
		       created_at, updated_at
		FROM billing
		WHERE id = $1
		FOR UPDATE
	`

	err := tx.Get(&billing, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock billing for update: %w", err)
	}

	return &billing, nil
}

// CreateTx inserts a billing inside an existing transaction
func (r *BillingRepository) CreateTx(tx *sqlx.Tx, billing *models.Billing) error {
	if billing.ID == uuid.Nil {
		billing.ID = uuid.New()
	}
	now := time.Now()
	billing.CreatedAt = now
	billing.UpdatedAt = now

	query := `
		INSERT INTO billing (id, claim_id, subtotal, total_amount, paid_amount, balance, status, created_at, updated_at)
		VALUES (:id, :claim_id, :subtotal, :total_amount, :paid_amount, :balance, :status, :created_at, :updated_at)
	`

	_, err := tx.NamedExec(query, billing)
	if err != nil {
		return fmt.Errorf("failed to create billing in transaction: %w", err)
	}

	return nil
}

// UpdateTx rewrites a billing's money columns inside an existing
// transaction. This is the only write path for paid_amount, balance and
// status.
func (r *BillingRepository) UpdateTx(tx *sqlx.Tx, billing *models.Billing) error {
	billing.UpdatedAt = time.Now()

	query := `
		UPDATE billing SET
			subtotal = :subtotal,
			total_amount = :total_amount,
			paid_amount = :paid_amount,
			balance = :balance,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	_, err := tx.NamedExec(query, billing)
	if err != nil {
		return fmt.Errorf("failed to update billing in transaction: %w", err)
	}

	return nil
}

// ReplaceItemsTx deletes and reinserts a billing's display items inside an
// existing transaction
func (r *BillingRepository) ReplaceItemsTx(tx *sqlx.Tx, billingID uuid.UUID, items []models.BillingItem) error {
	_, err := tx.Exec(`DELETE FROM billing_items WHERE billing_id = $1`, billingID)
	if err != nil {
		return fmt.Errorf("failed to delete billing items: %w", err)
	}

	for i := range items {
		items[i].BillingID = billingID
		items[i].Position = i
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}

		query := `
			INSERT INTO billing_items (id, billing_id, description, quantity, unit_price, total, position)
			VALUES (:id, :billing_id, :description, :quantity, :unit_price, :total, :position)
		`
		if _, err := tx.NamedExec(query, items[i]); err != nil {
			return fmt.Errorf("failed to insert billing item: %w", err)
		}
	}

	return nil
}

// GetItems retrieves a billing's display items in position order
func (r *BillingRepository) GetItems(ctx context.Context, billingID uuid.UUID) ([]models.BillingItem, error) {
	var items []models.BillingItem
	query := `
		SELECT id, billing_id, description, quantity, unit_price, total, position
		FROM billing_items
		WHERE billing_id = $1
		ORDER BY position ASC
	`

	err := r.db.SelectContext(ctx, &items, query, billingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get billing items: %w", err)
	}

	return items, nil
}

// UpsertDevelopmentFeeTx records or refreshes the commission line for a
// billing inside an existing transaction
func (r *BillingRepository) UpsertDevelopmentFeeTx(tx *sqlx.Tx, fee *models.DevelopmentFee) error {
	if fee.ID == uuid.Nil {
		fee.ID = uuid.New()
	}
	if fee.CreatedAt.IsZero() {
		fee.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO development_fees (id, billing_id, percentage, amount, created_at)
		VALUES (:id, :billing_id, :percentage, :amount, :created_at)
		ON CONFLICT (billing_id) DO UPDATE SET
			percentage = EXCLUDED.percentage,
			amount = EXCLUDED.amount
	`

	_, err := tx.NamedExec(query, fee)
	if err != nil {
		return fmt.Errorf("failed to upsert development fee: %w", err)
	}

	return nil
}

// GetDevelopmentFee retrieves the commission line for a billing
func (r *BillingRepository) GetDevelopmentFee(ctx context.Context, billingID uuid.UUID) (*models.DevelopmentFee, error) {
	var fee models.DevelopmentFee
	query := `
		SELECT id, billing_id, percentage, amount, created_at
		FROM development_fees
		WHERE billing_id = $1
	`

	err := r.db.GetContext(ctx, &fee, query, billingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get development fee: %w", err)
	}

	return &fee, nil
}
