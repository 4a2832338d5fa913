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

type BillingService struct {
	billingRepo     *repository.BillingRepository
	budgetItemRepo  *repository.BudgetItemRepository
	claimRepo       *repository.ClaimRepository
	paymentRepo     *repository.PaymentRepository
	installmentRepo *repository.InstallmentRepository
}

func NewBillingService(
	billingRepo *repository.BillingRepository,
	budgetItemRepo *repository.BudgetItemRepository,
	claimRepo *repository.ClaimRepository,
	paymentRepo *repository.PaymentRepository,
	installmentRepo *repository.InstallmentRepository,
) *BillingService {
	return &BillingService{
		billingRepo:     billingRepo,
		budgetItemRepo:  budgetItemRepo,
		claimRepo:       claimRepo,
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
	}
}

// GetBillingByID retrieves a billing with its items and payments
func (s *BillingService) GetBillingByID(ctx context.Context, billingID uuid.UUID) (*models.BillingDetail, error) {
	billing, err := s.billingRepo.GetByID(ctx, billingID)
	if err != nil {
		return nil, fmt.Errorf("billing not found: %w", err)
	}

	return s.buildDetail(ctx, billing)
}

// GetBillingByClaimID retrieves the billing for a claim. A claim with no
// billing yet is a valid state: the detail carries a nil billing and zero
// totals rather than an error.
func (s *BillingService) GetBillingByClaimID(ctx context.Context, claimID uuid.UUID) (*models.BillingDetail, error) {
	billing, err := s.billingRepo.GetByClaimID(ctx, claimID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.BillingDetail{Billing: nil, Totals: models.BillingTotals{}}, nil
		}
		return nil, fmt.Errorf("failed to get billing for claim: %w", err)
	}

	return s.buildDetail(ctx, billing)
}

// GetAllBillings retrieves every billing with items and payments
func (s *BillingService) GetAllBillings(ctx context.Context) ([]models.BillingDetail, error) {
	billings, err := s.billingRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get billings: %w", err)
	}

	details := make([]models.BillingDetail, 0, len(billings))
	for i := range billings {
		detail, err := s.buildDetail(ctx, &billings[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}

	return details, nil
}

// CreateBillingForClaim creates the billing for an accepted claim from its
// budget items. Creation is lazy: if the claim already has a billing the
// existing one is returned unchanged.
func (s *BillingService) CreateBillingForClaim(ctx context.Context, claimID uuid.UUID) (*models.BillingDetail, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	existing, err := s.billingRepo.GetByClaimID(ctx, claimID)
	if err == nil {
		return s.buildDetail(ctx, existing)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get billing for claim: %w", err)
	}

	items, err := s.budgetItemRepo.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("invalid request: claim has no budget items")
	}

	totals := ComputeBudgetTotals(items)

	tx, err := s.billingRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	billing := models.Billing{
		ClaimID:     claim.ID,
		Subtotal:    totals.Subtotal,
		TotalAmount: totals.Subtotal,
		PaidAmount:  0,
		Balance:     totals.Subtotal,
		Status:      models.BillingPending,
	}
	if err := s.billingRepo.CreateTx(tx, &billing); err != nil {
		tx.Rollback()
		slog.Error("error creating billing", "error", err)
		return nil, fmt.Errorf("error creating billing: %w", err)
	}

	if err := s.billingRepo.ReplaceItemsTx(tx, billing.ID, billingItemsFromBudget(billing.ID, items, totals)); err != nil {
		tx.Rollback()
		slog.Error("error creating billing items", "error", err)
		return nil, fmt.Errorf("error creating billing items: %w", err)
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

	if err := tx.Commit(); err != nil {
		slog.Error("error commiting transaction", "error", err)
		return nil, fmt.Errorf("error commiting transaction: %w", err)
	}

	return s.buildDetail(ctx, &billing)
}

// billingItemsFromBudget mirrors the budget lines into display lines and
// appends the negative development-discount line. The discount line is
// display only: the stored subtotal is what the client owes.
func billingItemsFromBudget(billingID uuid.UUID, items []models.BudgetItem, totals models.BudgetTotals) []models.BillingItem {
	out := make([]models.BillingItem, 0, len(items)+1)
	for _, item := range items {
		out = append(out, models.BillingItem{
			BillingID:   billingID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	if totals.DevelopmentFee > 0 {
		out = append(out, models.BillingItem{
			BillingID:   billingID,
			Description: "Descuento desarrollo",
			Quantity:    1,
			UnitPrice:   -totals.DevelopmentFee,
			Total:       -totals.DevelopmentFee,
		})
	}

	return out
}

func (s *BillingService) buildDetail(ctx context.Context, billing *models.Billing) (*models.BillingDetail, error) {
	items, err := s.billingRepo.GetItems(ctx, billing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get billing items: %w", err)
	}

	payments, err := s.paymentRepo.GetByBillingID(ctx, billing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	withInstallments := make([]models.PaymentWithInstallments, 0, len(payments))
	for i := range payments {
		installments, err := s.installmentRepo.GetByPaymentID(ctx, payments[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get installments: %w", err)
		}
		withInstallments = append(withInstallments, models.PaymentWithInstallments{
			Payment:      payments[i],
			Installments: installments,
		})
	}

	// The commission record is internal bookkeeping; a billing created
	// before the fee existed simply reports none.
	var fee *models.DevelopmentFee
	if f, err := s.billingRepo.GetDevelopmentFee(ctx, billing.ID); err == nil {
		fee = f
	}

	return &models.BillingDetail{
		Billing:        billing,
		Items:          items,
		Payments:       withInstallments,
		DevelopmentFee: fee,
		Totals: models.BillingTotals{
			TotalAmount: billing.TotalAmount,
			PaidAmount:  billing.PaidAmount,
			Balance:     billing.Balance,
			Progress:    BillingProgress(billing.PaidAmount, billing.TotalAmount),
		},
	}, nil
}
