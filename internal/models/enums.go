package models

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
	RoleClient   UserRole = "client"
)

type ClaimStatus string

const (
	ClaimPending    ClaimStatus = "pending"
	ClaimQuoted     ClaimStatus = "quoted"
	ClaimApproved   ClaimStatus = "approved"
	ClaimRejected   ClaimStatus = "rejected"
	ClaimInProgress ClaimStatus = "in_progress"
	ClaimCompleted  ClaimStatus = "completed"
	ClaimCancelled  ClaimStatus = "cancelled"
)

type BillingStatus string

const (
	BillingPending   BillingStatus = "pending"
	BillingPartial   BillingStatus = "partial"
	BillingPaid      BillingStatus = "paid"
	BillingRejected  BillingStatus = "rejected"
	BillingCancelled BillingStatus = "cancelled"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCard     PaymentMethod = "card"
	MethodOther    PaymentMethod = "other"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// InstallmentStatus is the single status vocabulary for installments. Both
// payment update paths (single installment and full replace) must reference
// these constants when summing paid amounts.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxDispatched OutboxStatus = "dispatched"
	OutboxFailed     OutboxStatus = "failed"
)

// DevelopmentFeePercent is the commission applied on every budget subtotal.
const DevelopmentFeePercent = 10.0

func IsValidUserRole(role UserRole) bool {
	switch role {
	case RoleAdmin, RoleEmployee, RoleClient:
		return true
	default:
		return false
	}
}

func IsValidClaimStatus(status ClaimStatus) bool {
	switch status {
	case ClaimPending, ClaimQuoted, ClaimApproved, ClaimRejected,
		ClaimInProgress, ClaimCompleted, ClaimCancelled:
		return true
	default:
		return false
	}
}

func IsValidPaymentMethod(method PaymentMethod) bool {
	switch method {
	case MethodCash, MethodTransfer, MethodCard, MethodOther:
		return true
	default:
		return false
	}
}

func IsValidInstallmentStatus(status InstallmentStatus) bool {
	switch status {
	case InstallmentPending, InstallmentPaid:
		return true
	default:
		return false
	}
}

func IsValidAppointmentStatus(status AppointmentStatus) bool {
	switch status {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	default:
		return false
	}
}
