package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Outbox event types. Secondary effects of a primary write (notifications,
// photo deletions, document archiving) are persisted here in the same
// transaction as the primary write and dispatched asynchronously, so a
// failing side effect never fails the user-facing operation and never
// drifts silently.
const (
	OutboxNotification       = "notification"
	OutboxBudgetReady        = "budget_ready"
	OutboxPaymentReceived    = "payment_received"
	OutboxInstallmentOverdue = "installment_overdue"
	OutboxDeletePhoto        = "delete_photo"
	OutboxArchiveInvoice     = "archive_invoice"
)

const OutboxMaxAttempts = 5

type OutboxEvent struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	EventType    string          `json:"event_type" db:"event_type"`
	Payload      json.RawMessage `json:"payload" db:"payload"`
	Status       OutboxStatus    `json:"status" db:"status"`
	Attempts     int             `json:"attempts" db:"attempts"`
	LastError    *string         `json:"last_error,omitempty" db:"last_error"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	DispatchedAt *time.Time      `json:"dispatched_at,omitempty" db:"dispatched_at"`
}

// NotificationPayload carries a free-form push. The typed payloads below
// are preferred for the recurring notifications so the wording lives in one
// place, next to the publisher.
type NotificationPayload struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	UserIDs []string `json:"user_ids"`
}

type BudgetReadyPayload struct {
	UserID   string  `json:"user_id"`
	Subtotal float64 `json:"subtotal"`
}

type PaymentReceivedPayload struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
}

type InstallmentOverduePayload struct {
	UserID            string  `json:"user_id"`
	InstallmentNumber int     `json:"installment_number"`
	Amount            float64 `json:"amount"`
}

type DeletePhotoPayload struct {
	Bucket     string `json:"bucket"`
	ObjectName string `json:"object_name"`
}

type ArchiveInvoicePayload struct {
	ClaimID    uuid.UUID `json:"claim_id"`
	ObjectName string    `json:"object_name"`
}
