package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func trimAndValidateString(str string, fieldName string, minLen, maxLen int) error {
	trimmed := strings.TrimSpace(str)
	if len(trimmed) < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if len(trimmed) > maxLen {
		return fmt.Errorf("%s must be %d characters or less", fieldName, maxLen)
	}
	return nil
}

// ============================================================================
// CLAIMS
// ============================================================================

type CreateClaimRequest struct {
	VehicleID   uuid.UUID `json:"vehicle_id"`
	Description string    `json:"description"`
}

func (r CreateClaimRequest) Validate() error {
	if r.VehicleID == uuid.Nil {
		return errors.New("vehicle_id is required")
	}
	return trimAndValidateString(r.Description, "description", 1, 2000)
}

type UpdateClaimStatusRequest struct {
	Status        ClaimStatus `json:"status"`
	EmployeeNotes *string     `json:"employee_notes,omitempty"`
}

func (r UpdateClaimStatusRequest) Validate() error {
	if !IsValidClaimStatus(r.Status) {
		return fmt.Errorf("invalid claim status=%v", r.Status)
	}
	return nil
}

// BudgetItemInput is one line of an employee-submitted budget. An item is
// rejected when the description is empty after trimming, quantity <= 0 or
// unit price < 0.
type BudgetItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func (i BudgetItemInput) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return errors.New("item description must not be empty")
	}
	if i.Quantity <= 0 {
		return errors.New("item quantity must be greater than zero")
	}
	if i.UnitPrice < 0 {
		return errors.New("item unit price must not be negative")
	}
	return nil
}

type SaveBudgetRequest struct {
	Items []BudgetItemInput `json:"items"`
}

func (r SaveBudgetRequest) Validate() error {
	if len(r.Items) == 0 {
		return errors.New("budget must contain at least one item")
	}
	for idx, item := range r.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", idx+1, err)
		}
	}
	return nil
}

// ============================================================================
// PAYMENTS
// ============================================================================

// InstallmentInput is a caller-supplied installment split. The server
// recomputes the amounts from principal, interest rate and count; the
// submitted amounts are treated as a display hint only. Status defaults to
// pending when omitted.
type InstallmentInput struct {
	Amount      float64           `json:"amount"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Status      InstallmentStatus `json:"status,omitempty"`
	ReceiptURL  *string           `json:"receipt_url,omitempty"`
	PaymentDate *time.Time        `json:"payment_date,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
}

type CreatePaymentRequest struct {
	Amount           float64            `json:"amount"`
	PaymentMethod    PaymentMethod      `json:"payment_method"`
	CardInstallments int                `json:"card_installments"`
	CardInterestRate float64            `json:"card_interest_rate"`
	BankName         *string            `json:"bank_name,omitempty"`
	ReceiptURL       *string            `json:"receipt_url,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
	Installments     []InstallmentInput `json:"installments,omitempty"`
}

func (r CreatePaymentRequest) Validate() error {
	if r.Amount <= 0 {
		return errors.New("Invalid payment amount")
	}
	if r.PaymentMethod != "" && !IsValidPaymentMethod(r.PaymentMethod) {
		return fmt.Errorf("invalid payment method=%v", r.PaymentMethod)
	}
	if r.CardInstallments < 0 {
		return errors.New("card_installments must not be negative")
	}
	if r.CardInterestRate < 0 {
		return errors.New("card_interest_rate must not be negative")
	}
	return nil
}

// UpdatePaymentRequest replaces a payment's scalar fields and its full
// installment set. Nil fields are left unchanged at the data layer; the
// installment set is a full replacement and must not be empty.
type UpdatePaymentRequest struct {
	Amount           *float64           `json:"amount,omitempty"`
	PaymentMethod    *PaymentMethod     `json:"payment_method,omitempty"`
	CardInstallments *int               `json:"card_installments,omitempty"`
	CardInterestRate *float64           `json:"card_interest_rate,omitempty"`
	BankName         *string            `json:"bank_name,omitempty"`
	ReceiptURL       *string            `json:"receipt_url,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
	PaymentDate      *time.Time         `json:"payment_date,omitempty"`
	Installments     []InstallmentInput `json:"installments"`
}

func (r UpdatePaymentRequest) Validate() error {
	if r.Amount != nil && *r.Amount <= 0 {
		return errors.New("Invalid payment amount")
	}
	if r.PaymentMethod != nil && !IsValidPaymentMethod(*r.PaymentMethod) {
		return fmt.Errorf("invalid payment method=%v", *r.PaymentMethod)
	}
	if len(r.Installments) == 0 {
		return errors.New("invalid request: installments must contain at least one entry")
	}
	return nil
}

type UpdateInstallmentRequest struct {
	Status      InstallmentStatus `json:"status"`
	ReceiptURL  *string           `json:"receipt_url,omitempty"`
	PaymentDate *time.Time        `json:"payment_date,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
}

func (r UpdateInstallmentRequest) Validate() error {
	if !IsValidInstallmentStatus(r.Status) {
		return fmt.Errorf("invalid installment status=%v", r.Status)
	}
	return nil
}

// ============================================================================
// APPOINTMENTS & VEHICLES
// ============================================================================

type CreateAppointmentRequest struct {
	ClaimID     uuid.UUID `json:"claim_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       *string   `json:"notes,omitempty"`
}

func (r CreateAppointmentRequest) Validate() error {
	if r.ClaimID == uuid.Nil {
		return errors.New("claim_id is required")
	}
	if r.ScheduledAt.IsZero() {
		return errors.New("scheduled_at is required")
	}
	return nil
}

type UpdateAppointmentRequest struct {
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
	Status      *AppointmentStatus `json:"status,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

func (r UpdateAppointmentRequest) Validate() error {
	if r.Status != nil && !IsValidAppointmentStatus(*r.Status) {
		return fmt.Errorf("invalid appointment status=%v", *r.Status)
	}
	return nil
}

type CreateVehicleRequest struct {
	Plate string  `json:"plate"`
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Year  *int    `json:"year,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (r CreateVehicleRequest) Validate() error {
	if err := trimAndValidateString(r.Plate, "plate", 1, 16); err != nil {
		return err
	}
	if err := trimAndValidateString(r.Brand, "brand", 1, 64); err != nil {
		return err
	}
	return trimAndValidateString(r.Model, "model", 1, 64)
}

// UpdateProfileRequest edits the signed-in user's own profile. The phone
// format is checked at the service layer.
type UpdateProfileRequest struct {
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	return trimAndValidateString(r.FullName, "full_name", 1, 128)
}

type UpdateUserRoleRequest struct {
	Role UserRole `json:"role"`
}

func (r UpdateUserRoleRequest) Validate() error {
	if !IsValidUserRole(r.Role) {
		return fmt.Errorf("invalid role=%v", r.Role)
	}
	return nil
}
