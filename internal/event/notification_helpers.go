package event

import (
	"context"
	"fmt"
)

// NotificationHelper provides convenient methods for publishing common notification types
type NotificationHelper struct {
	publisher *NotificationPublisher
}

// NewNotificationHelper creates a new notification helper
func NewNotificationHelper(publisher *NotificationPublisher) *NotificationHelper {
	return &NotificationHelper{
		publisher: publisher,
	}
}

// NotifyBudgetReady tells a client their claim has been quoted
func (h *NotificationHelper) NotifyBudgetReady(ctx context.Context, userID string, subtotal float64) error {
	event := NotificationEventPushModel{
		Title:      "Presupuesto disponible",
		Body:       fmt.Sprintf("Tu siniestro tiene un presupuesto por $%.2f. Ingresá para aprobarlo o rechazarlo.", subtotal),
		LstUserIds: []string{userID},
	}
	return h.publisher.PublishNotification(ctx, event)
}

// NotifyInstallmentOverdue reminds a client of an unpaid installment past its due date
func (h *NotificationHelper) NotifyInstallmentOverdue(ctx context.Context, userID string, installmentNumber int, amount float64) error {
	event := NotificationEventPushModel{
		Title:      "Cuota vencida",
		Body:       fmt.Sprintf("La cuota %d por $%.2f está vencida. Regularizá el pago para continuar.", installmentNumber, amount),
		LstUserIds: []string{userID},
	}
	return h.publisher.PublishNotification(ctx, event)
}

// NotifyPaymentReceived confirms a registered payment to the client
func (h *NotificationHelper) NotifyPaymentReceived(ctx context.Context, userID string, amount float64) error {
	event := NotificationEventPushModel{
		Title:      "Pago registrado",
		Body:       fmt.Sprintf("Registramos tu pago por $%.2f.", amount),
		LstUserIds: []string{userID},
	}
	return h.publisher.PublishNotification(ctx, event)
}

// NotifyMultipleUsers sends the same notification to multiple users
func (h *NotificationHelper) NotifyMultipleUsers(ctx context.Context, title, body string, userIDs []string) error {
	event := NotificationEventPushModel{
		Title:      title,
		Body:       body,
		LstUserIds: userIDs,
	}
	return h.publisher.PublishNotification(ctx, event)
}
