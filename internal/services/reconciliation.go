package services

import (
	"math"
	"time"

	"doctorcar-service/internal/models"
)

// InstallmentDraft is a server-computed installment before persistence.
// Client-submitted splits are display hints only; the authoritative amounts
// come from SplitInstallments.
type InstallmentDraft struct {
	Number  int
	Amount  float64
	DueDate *time.Time
}

// ComputeBudgetTotals sums a budget's item totals in creation order and
// derives the commission line. The fee is stored unrounded; the client owes
// the subtotal, not totalAfterFee.
func ComputeBudgetTotals(items []models.BudgetItem) models.BudgetTotals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Quantity * item.UnitPrice
	}

	fee := subtotal * models.DevelopmentFeePercent / 100

	return models.BudgetTotals{
		Subtotal:       subtotal,
		DevelopmentFee: fee,
		TotalAfterFee:  subtotal - fee,
	}
}

// InstallmentCount resolves how many installments a payment splits into.
// An explicit installment list takes precedence over the card plan count;
// with neither, the payment is a single installment.
func InstallmentCount(cardInstallments, submitted int) int {
	if submitted > 0 {
		return submitted
	}
	if cardInstallments > 0 {
		return cardInstallments
	}
	return 1
}

// SplitInstallments divides a principal (plus optional interest) into count
// equal installments rounded to cents. The last installment absorbs the
// rounding remainder so the drafts always sum exactly to the adjusted total.
// count < 1 is treated as a single installment.
func SplitInstallments(principal, interestRate float64, count int, firstDue *time.Time, interval time.Duration) []InstallmentDraft {
	if count < 1 {
		count = 1
	}

	total := roundCents(principal * (1 + interestRate/100))
	perInstallment := roundCents(total / float64(count))

	drafts := make([]InstallmentDraft, count)
	for i := 0; i < count; i++ {
		amount := perInstallment
		if i == count-1 {
			amount = roundCents(total - perInstallment*float64(count-1))
		}

		var due *time.Time
		if firstDue != nil {
			d := firstDue.Add(time.Duration(i) * interval)
			due = &d
		}

		drafts[i] = InstallmentDraft{
			Number:  i + 1,
			Amount:  amount,
			DueDate: due,
		}
	}

	return drafts
}

// ReconcileBilling recomputes a billing's money columns from the full
// installment set across every payment. The sum of paid installments is the
// single source of truth: paid amount, balance and status are all derived
// from it, so re-running with unchanged installments yields identical
// results.
func ReconcileBilling(totalOwed float64, installments []models.Installment) (paid float64, balance float64, status models.BillingStatus) {
	for _, inst := range installments {
		if inst.IsPaid() {
			paid += inst.InstallmentAmount
		}
	}

	balance = totalOwed - paid

	switch {
	case paid == 0:
		status = models.BillingPending
	case balance <= 0:
		status = models.BillingPaid
	default:
		status = models.BillingPartial
	}

	return paid, balance, status
}

// BillingProgress reports paid/total as a whole percentage capped at 100.
// An empty billing (total 0) reads as 0 progress.
func BillingProgress(paid, total float64) int {
	if total == 0 {
		return 0
	}
	pct := paid / total * 100
	if pct > 100 {
		pct = 100
	}
	return int(math.Round(pct))
}

// PaymentStatusFrom derives a payment's status from its installments: a
// payment is completed once every installment is paid. Both installment
// update paths use the same literal.
func PaymentStatusFrom(installments []models.Installment) models.PaymentStatus {
	if len(installments) == 0 {
		return models.PaymentPending
	}
	for _, inst := range installments {
		if !inst.IsPaid() {
			return models.PaymentPending
		}
	}
	return models.PaymentCompleted
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
