package services

import (
	"testing"
	"time"

	"doctorcar-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeBudgetTotals(t *testing.T) {
	items := []models.BudgetItem{
		{Description: "Front bumper repaint", Quantity: 1, UnitPrice: 150},
		{Description: "Panel beating", Quantity: 2, UnitPrice: 50},
	}

	totals := ComputeBudgetTotals(items)

	assert.Equal(t, 250.0, totals.Subtotal)
	assert.Equal(t, 25.0, totals.DevelopmentFee)
	assert.Equal(t, 225.0, totals.TotalAfterFee)
}

func TestComputeBudgetTotals_Empty(t *testing.T) {
	totals := ComputeBudgetTotals(nil)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DevelopmentFee)
	assert.Equal(t, 0.0, totals.TotalAfterFee)
}

func TestSplitInstallments_SingleNoInterest(t *testing.T) {
	drafts := SplitInstallments(250, 0, 1, nil, 0)

	assert.Len(t, drafts, 1)
	assert.Equal(t, 1, drafts[0].Number)
	assert.Equal(t, 250.0, drafts[0].Amount)
	assert.Nil(t, drafts[0].DueDate)
}

func TestSplitInstallments_LastAbsorbsRemainder(t *testing.T) {
	drafts := SplitInstallments(100, 0, 3, nil, 0)

	assert.Len(t, drafts, 3)
	assert.Equal(t, 33.33, drafts[0].Amount)
	assert.Equal(t, 33.33, drafts[1].Amount)
	assert.Equal(t, 33.34, drafts[2].Amount)

	var sum float64
	for _, d := range drafts {
		sum += d.Amount
	}
	assert.InDelta(t, 100.0, sum, 0.0001)
}

func TestSplitInstallments_InterestAdjustedTotal(t *testing.T) {
	drafts := SplitInstallments(1000, 10, 4, nil, 0)

	var sum float64
	for _, d := range drafts {
		sum += d.Amount
	}
	assert.InDelta(t, 1100.0, sum, 0.0001)

	for i, d := range drafts {
		assert.Equal(t, i+1, d.Number)
	}
}

func TestSplitInstallments_DueDates(t *testing.T) {
	first := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	interval := 30 * 24 * time.Hour

	drafts := SplitInstallments(300, 0, 3, &first, interval)

	assert.Equal(t, first, *drafts[0].DueDate)
	assert.Equal(t, first.Add(interval), *drafts[1].DueDate)
	assert.Equal(t, first.Add(2*interval), *drafts[2].DueDate)
}

func TestSplitInstallments_ZeroCountFallsBackToOne(t *testing.T) {
	drafts := SplitInstallments(500, 0, 0, nil, 0)

	assert.Len(t, drafts, 1)
	assert.Equal(t, 500.0, drafts[0].Amount)
}

func TestInstallmentCount(t *testing.T) {
	// A submitted installment list wins over the card plan count, so a
	// non-card payment split into two entries yields two rows whether or
	// not card_installments is set.
	assert.Equal(t, 2, InstallmentCount(0, 2))
	assert.Equal(t, 2, InstallmentCount(6, 2))

	// Card plan applies when no explicit list is submitted.
	assert.Equal(t, 6, InstallmentCount(6, 0))

	// Neither given: a payment is always at least one installment.
	assert.Equal(t, 1, InstallmentCount(0, 0))
}

func TestInstallmentCount_MatchesSplit(t *testing.T) {
	// Two submitted entries with card_installments zero must produce two
	// drafts summing to the payment amount.
	count := InstallmentCount(0, 2)
	drafts := SplitInstallments(300, 0, count, nil, 0)

	assert.Len(t, drafts, 2)
	assert.Equal(t, 150.0, drafts[0].Amount)
	assert.Equal(t, 150.0, drafts[1].Amount)
}

func installmentsOf(amounts []float64, statuses []models.InstallmentStatus) []models.Installment {
	out := make([]models.Installment, len(amounts))
	for i := range amounts {
		out[i] = models.Installment{
			InstallmentNumber: i + 1,
			InstallmentAmount: amounts[i],
			Status:            statuses[i],
		}
	}
	return out
}

func TestReconcileBilling_NothingPaid(t *testing.T) {
	insts := installmentsOf(
		[]float64{125, 125},
		[]models.InstallmentStatus{models.InstallmentPending, models.InstallmentPending},
	)

	paid, balance, status := ReconcileBilling(250, insts)

	assert.Equal(t, 0.0, paid)
	assert.Equal(t, 250.0, balance)
	assert.Equal(t, models.BillingPending, status)
}

func TestReconcileBilling_PartiallyPaid(t *testing.T) {
	insts := installmentsOf(
		[]float64{125, 125},
		[]models.InstallmentStatus{models.InstallmentPaid, models.InstallmentPending},
	)

	paid, balance, status := ReconcileBilling(250, insts)

	assert.Equal(t, 125.0, paid)
	assert.Equal(t, 125.0, balance)
	assert.Equal(t, models.BillingPartial, status)
}

func TestReconcileBilling_FullyPaid(t *testing.T) {
	insts := installmentsOf(
		[]float64{125, 125},
		[]models.InstallmentStatus{models.InstallmentPaid, models.InstallmentPaid},
	)

	paid, balance, status := ReconcileBilling(250, insts)

	assert.Equal(t, 250.0, paid)
	assert.Equal(t, 0.0, balance)
	assert.Equal(t, models.BillingPaid, status)
}

func TestReconcileBilling_Overpaid(t *testing.T) {
	insts := installmentsOf(
		[]float64{300},
		[]models.InstallmentStatus{models.InstallmentPaid},
	)

	paid, balance, status := ReconcileBilling(250, insts)

	assert.Equal(t, 300.0, paid)
	assert.Equal(t, -50.0, balance)
	assert.Equal(t, models.BillingPaid, status)
}

func TestReconcileBilling_EmptyBillingStaysPending(t *testing.T) {
	paid, balance, status := ReconcileBilling(0, nil)

	assert.Equal(t, 0.0, paid)
	assert.Equal(t, 0.0, balance)
	assert.Equal(t, models.BillingPending, status)
}

func TestReconcileBilling_Idempotent(t *testing.T) {
	insts := installmentsOf(
		[]float64{100, 100, 50},
		[]models.InstallmentStatus{models.InstallmentPaid, models.InstallmentPending, models.InstallmentPaid},
	)

	paid1, balance1, status1 := ReconcileBilling(250, insts)
	paid2, balance2, status2 := ReconcileBilling(250, insts)

	assert.Equal(t, paid1, paid2)
	assert.Equal(t, balance1, balance2)
	assert.Equal(t, status1, status2)
	assert.Equal(t, models.BillingPartial, status1)
}

func TestBillingProgress(t *testing.T) {
	assert.Equal(t, 0, BillingProgress(0, 250))
	assert.Equal(t, 50, BillingProgress(125, 250))
	assert.Equal(t, 100, BillingProgress(250, 250))
	assert.Equal(t, 100, BillingProgress(300, 250))
	assert.Equal(t, 33, BillingProgress(1, 3))
}

func TestBillingProgress_ZeroTotal(t *testing.T) {
	assert.Equal(t, 0, BillingProgress(0, 0))
	assert.Equal(t, 0, BillingProgress(100, 0))
}

func TestPaymentStatusFrom(t *testing.T) {
	pendingOnly := installmentsOf(
		[]float64{50, 50},
		[]models.InstallmentStatus{models.InstallmentPending, models.InstallmentPending},
	)
	assert.Equal(t, models.PaymentPending, PaymentStatusFrom(pendingOnly))

	mixed := installmentsOf(
		[]float64{50, 50},
		[]models.InstallmentStatus{models.InstallmentPaid, models.InstallmentPending},
	)
	assert.Equal(t, models.PaymentPending, PaymentStatusFrom(mixed))

	allPaid := installmentsOf(
		[]float64{50, 50},
		[]models.InstallmentStatus{models.InstallmentPaid, models.InstallmentPaid},
	)
	assert.Equal(t, models.PaymentCompleted, PaymentStatusFrom(allPaid))

	assert.Equal(t, models.PaymentPending, PaymentStatusFrom(nil))
}
