package models

import (
	"time"

	"github.com/google/uuid"
)

// Billing is the money-owed record derived from a claim's approved budget.
// Subtotal is the sum of budget item totals and is what the client owes;
// the development fee is tracked separately and never added to the client
// total. PaidAmount, Balance and Status are written exclusively by the
// reconciliation pass so the stored columns are the single source of truth.
type Billing struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	ClaimID     uuid.UUID     `json:"claim_id" db:"claim_id"`
	Subtotal    float64       `json:"subtotal" db:"subtotal"`
	TotalAmount float64       `json:"total_amount" db:"total_amount"`
	PaidAmount  float64       `json:"paid_amount" db:"paid_amount"`
	Balance     float64       `json:"balance" db:"balance"`
	Status      BillingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

type BillingItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BillingID   uuid.UUID `json:"billing_id" db:"billing_id"`
	Description string    `json:"description" db:"description"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Total       float64   `json:"total" db:"total"`
	Position    int       `json:"position" db:"position"`
}

// DevelopmentFee is the informational 10% commission line recorded per
// billing. It is never subtracted from the client-owed subtotal.
type DevelopmentFee struct {
	ID         uuid.UUID `json:"id" db:"id"`
	BillingID  uuid.UUID `json:"billing_id" db:"billing_id"`
	Percentage float64   `json:"percentage" db:"percentage"`
	Amount     float64   `json:"amount" db:"amount"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type Payment struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	BillingID        uuid.UUID     `json:"billing_id" db:"billing_id"`
	Amount           float64       `json:"amount" db:"amount"`
	PaymentMethod    PaymentMethod `json:"payment_method" db:"payment_method"`
	CardInstallments int           `json:"card_installments" db:"card_installments"`
	CardInterestRate float64       `json:"card_interest_rate" db:"card_interest_rate"`
	BankName         *string       `json:"bank_name,omitempty" db:"bank_name"`
	ReceiptURL       *string       `json:"receipt_url,omitempty" db:"receipt_url"`
	Notes            *string       `json:"notes,omitempty" db:"notes"`
	Status           PaymentStatus `json:"status" db:"status"`
	PaymentDate      *time.Time    `json:"payment_date,omitempty" db:"payment_date"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

type Installment struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	PaymentID         uuid.UUID         `json:"payment_id" db:"payment_id"`
	InstallmentNumber int               `json:"installment_number" db:"installment_number"`
	InstallmentAmount float64           `json:"installment_amount" db:"installment_amount"`
	DueDate           *time.Time        `json:"due_date,omitempty" db:"due_date"`
	Status            InstallmentStatus `json:"status" db:"status"`
	ReceiptURL        *string           `json:"receipt_url,omitempty" db:"receipt_url"`
	PaymentDate       *time.Time        `json:"payment_date,omitempty" db:"payment_date"`
	Notes             *string           `json:"notes,omitempty" db:"notes"`
	ReminderSentAt    *time.Time        `json:"reminder_sent_at,omitempty" db:"reminder_sent_at"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentPaid
}
