package models

// BillingTotals is the money summary reported on every claim view. The
// total is the billing subtotal (the development fee is excluded from what
// the client owes); progress is capped at 100 and is 0 when the total is 0.
type BillingTotals struct {
	TotalAmount float64 `json:"total_amount"`
	PaidAmount  float64 `json:"paid_amount"`
	Balance     float64 `json:"balance"`
	Progress    int     `json:"progress"`
}

type PaymentWithInstallments struct {
	Payment
	Installments []Installment `json:"installments"`
}

type BillingDetail struct {
	Billing        *Billing                  `json:"billing"`
	Items          []BillingItem             `json:"items,omitempty"`
	Payments       []PaymentWithInstallments `json:"payments,omitempty"`
	DevelopmentFee *DevelopmentFee           `json:"development_fee,omitempty"`
	Totals         BillingTotals             `json:"totals"`
}

// ClaimDetail joins a claim with everything the dashboards render for it.
type ClaimDetail struct {
	Claim        Claim         `json:"claim"`
	Vehicle      *Vehicle      `json:"vehicle,omitempty"`
	Client       *User         `json:"client,omitempty"`
	Photos       []ClaimPhoto  `json:"photos,omitempty"`
	BudgetItems  []BudgetItem  `json:"budget_items,omitempty"`
	Appointments []Appointment `json:"appointments,omitempty"`
	Billing      BillingDetail `json:"billing"`
}

type BudgetTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DevelopmentFee float64 `json:"development_fee"`
	TotalAfterFee  float64 `json:"total_after_fee"`
}
