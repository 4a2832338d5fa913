package models

import (
	"time"

	"github.com/google/uuid"
)

type Claim struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	ClientID      uuid.UUID   `json:"client_id" db:"client_id"`
	VehicleID     uuid.UUID   `json:"vehicle_id" db:"vehicle_id"`
	Description   string      `json:"description" db:"description"`
	Status        ClaimStatus `json:"status" db:"status"`
	EmployeeNotes *string     `json:"employee_notes,omitempty" db:"employee_notes"`
	ReviewedBy    *uuid.UUID  `json:"reviewed_by,omitempty" db:"reviewed_by"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// IsOpen reports whether the claim can still be budgeted or scheduled.
func (c *Claim) IsOpen() bool {
	switch c.Status {
	case ClaimCompleted, ClaimCancelled, ClaimRejected:
		return false
	default:
		return true
	}
}

type ClaimPhoto struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ClaimID    uuid.UUID `json:"claim_id" db:"claim_id"`
	ObjectName string    `json:"object_name" db:"object_name"`
	URL        string    `json:"url" db:"url"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// BudgetItem is one line of a repair estimate. Total is always
// quantity * unit price, computed at write time.
type BudgetItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ClaimID     uuid.UUID `json:"claim_id" db:"claim_id"`
	Description string    `json:"description" db:"description"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Total       float64   `json:"total" db:"total"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Appointment struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	ClaimID     uuid.UUID         `json:"claim_id" db:"claim_id"`
	ScheduledAt time.Time         `json:"scheduled_at" db:"scheduled_at"`
	Status      AppointmentStatus `json:"status" db:"status"`
	Notes       *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}
