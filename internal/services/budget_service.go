package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"

	"github.com/google/uuid"
)

// BudgetService owns the budget save flow: replacing a claim's budget
// wholesale, refreshing the derived billing and quoting the claim, all in
// one transaction.
type BudgetService struct {
	claimRepo       *repository.ClaimRepository
	budgetItemRepo  *repository.BudgetItemRepository
	billingRepo     *repository.BillingRepository
	installmentRepo *repository.InstallmentRepository
	outboxRepo      *repository.OutboxRepository
}

func NewBudgetService(
	claimRepo *repository.ClaimRepository,
	budgetItemRepo *repository.BudgetItemRepository,
	billingRepo *repository.BillingRepository,
	installmentRepo *repository.InstallmentRepository,
	outboxRepo *repository.OutboxRepository,
) *BudgetService {
	return &BudgetService{
		claimRepo:       claimRepo,
		budgetItemRepo:  budgetItemRepo,
		billingRepo:     billingRepo,
		installmentRepo: installmentRepo,
		outboxRepo:      outboxRepo,
	}
}

// GetBudgetItems retrieves a claim's budget items in creation order
func (s *BudgetService) GetBudgetItems(ctx context.Context, claimID uuid.UUID) ([]models.BudgetItem, error) {
	if _, err := s.claimRepo.GetByID(ctx, claimID); err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	items, err := s.budgetItemRepo.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget items: %w", err)
	}

	return items, nil
}

// SaveBudget replaces a claim's budget with the submitted items, refreshes
// the derived billing (subtotal, display lines, commission record) and moves
// the claim to quoted. Everything happens in one transaction; the client
// notification goes through the outbox so it can never fail the save.
func (s *BudgetService) SaveBudget(ctx context.Context, claimID uuid.UUID, request models.SaveBudgetRequest, reviewerID uuid.UUID) (*models.BudgetTotals, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid budget: %w", err)
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}
	if !claim.IsOpen() {
		return nil, fmt.Errorf("invalid request: claim %s is closed", claim.Status)
	}

	items := make([]models.BudgetItem, len(request.Items))
	for i, input := range request.Items {
		items[i] = models.BudgetItem{
			ClaimID:     claimID,
			Description: input.Description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			Total:       input.Quantity * input.UnitPrice,
		}
	}
	totals := ComputeBudgetTotals(items)

	tx, err := s.claimRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	if err := s.budgetItemRepo.ReplaceForClaimTx(tx, claimID, items); err != nil {
		tx.Rollback()
		slog.Error("error replacing budget items", "error", err)
		return nil, fmt.Errorf("error replacing budget items: %w", err)
	}

	billing, err := s.billingRepo.GetByClaimID(ctx, claimID)
	switch {
	case err == nil:
		// Resave: keep what has been paid and re-derive balance and
		// status against the new subtotal.
		locked, lockErr := s.billingRepo.GetForUpdateTx(tx, billing.ID)
		if lockErr != nil {
			tx.Rollback()
			slog.Error("error locking billing", "error", lockErr)
			return nil, fmt.Errorf("error locking billing: %w", lockErr)
		}

		installments, instErr := s.installmentRepo.GetByBillingIDTx(tx, locked.ID)
		if instErr != nil {
			tx.Rollback()
			slog.Error("error loading installments", "error", instErr)
			return nil, fmt.Errorf("error loading installments: %w", instErr)
		}

		locked.Subtotal = totals.Subtotal
		locked.TotalAmount = totals.Subtotal
		locked.PaidAmount, locked.Balance, locked.Status = ReconcileBilling(totals.Subtotal, installments)
		if updErr := s.billingRepo.UpdateTx(tx, locked); updErr != nil {
			tx.Rollback()
			slog.Error("error updating billing", "error", updErr)
			return nil, fmt.Errorf("error updating billing: %w", updErr)
		}
		billing = locked

	case errors.Is(err, sql.ErrNoRows):
		billing = &models.Billing{
			ClaimID:     claimID,
			Subtotal:    totals.Subtotal,
			TotalAmount: totals.Subtotal,
			PaidAmount:  0,
			Balance:     totals.Subtotal,
			Status:      models.BillingPending,
		}
		if createErr := s.billingRepo.CreateTx(tx, billing); createErr != nil {
			tx.Rollback()
			slog.Error("error creating billing", "error", createErr)
			return nil, fmt.Errorf("error creating billing: %w", createErr)
		}

	default:
		tx.Rollback()
		return nil, fmt.Errorf("failed to get billing for claim: %w", err)
	}

	if err := s.billingRepo.ReplaceItemsTx(tx, billing.ID, billingItemsFromBudget(billing.ID, items, totals)); err != nil {
		tx.Rollback()
		slog.Error("error replacing billing items", "error", err)
		return nil, fmt.Errorf("error replacing billing items: %w", err)
	}

	fee := models.DevelopmentFee{
		BillingID:  billing.ID,
		Percentage: models.DevelopmentFeePercent,
		Amount:     totals.DevelopmentFee,
	}
	if err := s.billingRepo.UpsertDevelopmentFeeTx(tx, &fee); err != nil {
		tx.Rollback()
		slog.Error("error recording development fee", "error", err)
		return nil, fmt.Errorf("error recording development fee: %w", err)
	}

	claim.Status = models.ClaimQuoted
	claim.ReviewedBy = &reviewerID
	if err := s.claimRepo.UpdateTx(tx, claim); err != nil {
		tx.Rollback()
		slog.Error("error updating claim", "error", err)
		return nil, fmt.Errorf("error updating claim: %w", err)
	}

	notification := models.BudgetReadyPayload{
		UserID:   claim.ClientID.String(),
		Subtotal: totals.Subtotal,
	}
	if err := s.outboxRepo.EnqueueTx(tx, models.OutboxBudgetReady, notification); err != nil {
		tx.Rollback()
		slog.Error("error enqueueing notification", "error", err)
		return nil, fmt.Errorf("error enqueueing notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("error commiting transaction", "error", err)
		return nil, fmt.Errorf("error commiting transaction: %w", err)
	}

	return &totals, nil
}
