package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BudgetItemRepository struct {
	db *sqlx.DB
}

func NewBudgetItemRepository(db *sqlx.DB) *BudgetItemRepository {
	return &BudgetItemRepository{db: db}
}

// GetByClaimID retrieves a claim's budget items in creation order. Order
// matters: the billing subtotal must sum in this exact order.
func (r *BudgetItemRepository) GetByClaimID(ctx context.Context, claimID uuid.UUID) ([]models.BudgetItem, error) {
	var items []models.BudgetItem
	query := `
		SELECT id, claim_id, description, quantity, unit_price, total, position, created_at
		FROM budget_items
		WHERE claim_id = $1
		ORDER BY position ASC
	`

	err := r.db.SelectContext(ctx, &items, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget items by claim id: %w", err)
	}

	return items, nil
}

// ReplaceForClaimTx deletes a claim's budget items and reinserts the given
// set inside an existing transaction. Budgets are replaced wholesale on
// every resave.
func (r *BudgetItemRepository) ReplaceForClaimTx(tx *sqlx.Tx, claimID uuid.UUID, items []models.BudgetItem) error {
	_, err := tx.Exec(`DELETE FROM budget_items WHERE claim_id = $1`, claimID)
	if err != nil {
		return fmt.Errorf("failed to delete budget items: %w", err)
	}

	now := time.Now()
	for i := range items {
		items[i].ClaimID = claimID
		items[i].Position = i
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}

		query := `
			INSERT INTO budget_items (id, claim_id, description, quantity, unit_price, total, position, created_at)
			VALUES (:id, :claim_id, :description, :quantity, :unit_price, :total, :position, :created_at)
		`
		if _, err := tx.NamedExec(query, items[i]); err != nil {
			return fmt.Errorf("failed to insert budget item: %w", err)
		}
	}

	return nil
}
