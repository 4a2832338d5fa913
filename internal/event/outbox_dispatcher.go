package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"doctorcar-service/internal/database/minio"
	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"
	"doctorcar-service/internal/services"
)

// OutboxDispatcher drains pending outbox events and executes their side
// effects: push notifications, object store deletions and PDF archiving.
// Failures increment the attempt counter instead of losing the effect.
type OutboxDispatcher struct {
	outboxRepo  *repository.OutboxRepository
	helper      *NotificationHelper
	minioClient *minio.MinioClient
	documents   *services.DocumentService
}

func NewOutboxDispatcher(
	outboxRepo *repository.OutboxRepository,
	helper *NotificationHelper,
	minioClient *minio.MinioClient,
	documents *services.DocumentService,
) *OutboxDispatcher {
	return &OutboxDispatcher{
		outboxRepo:  outboxRepo,
		helper:      helper,
		minioClient: minioClient,
		documents:   documents,
	}
}

// Drain processes up to batchSize pending events
func (d *OutboxDispatcher) Drain(ctx context.Context, batchSize int) error {
	events, err := d.outboxRepo.GetPending(ctx, batchSize)
	if err != nil {
		return fmt.Errorf("failed to load pending outbox events: %w", err)
	}

	for _, evt := range events {
		if err := d.dispatch(ctx, evt); err != nil {
			slog.Error("outbox dispatch failed",
				"event_id", evt.ID,
				"event_type", evt.EventType,
				"attempt", evt.Attempts+1,
				"error", err)
			if markErr := d.outboxRepo.MarkFailed(ctx, evt.ID, err); markErr != nil {
				slog.Error("failed to record outbox failure", "event_id", evt.ID, "error", markErr)
			}
			continue
		}

		if err := d.outboxRepo.MarkDispatched(ctx, evt.ID); err != nil {
			slog.Error("failed to mark outbox event dispatched", "event_id", evt.ID, "error", err)
		}
	}

	return nil
}

func (d *OutboxDispatcher) dispatch(ctx context.Context, evt models.OutboxEvent) error {
	switch evt.EventType {
	case models.OutboxNotification:
		var payload models.NotificationPayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode notification payload: %w", err)
		}
		return d.helper.NotifyMultipleUsers(ctx, payload.Title, payload.Body, payload.UserIDs)

	case models.OutboxBudgetReady:
		var payload models.BudgetReadyPayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode budget ready payload: %w", err)
		}
		return d.helper.NotifyBudgetReady(ctx, payload.UserID, payload.Subtotal)

	case models.OutboxPaymentReceived:
		var payload models.PaymentReceivedPayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode payment received payload: %w", err)
		}
		return d.helper.NotifyPaymentReceived(ctx, payload.UserID, payload.Amount)

	case models.OutboxInstallmentOverdue:
		var payload models.InstallmentOverduePayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode installment overdue payload: %w", err)
		}
		return d.helper.NotifyInstallmentOverdue(ctx, payload.UserID, payload.InstallmentNumber, payload.Amount)

	case models.OutboxDeletePhoto:
		var payload models.DeletePhotoPayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode delete photo payload: %w", err)
		}
		return d.minioClient.DeleteFile(ctx, payload.Bucket, payload.ObjectName)

	case models.OutboxArchiveInvoice:
		var payload models.ArchiveInvoicePayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode archive payload: %w", err)
		}
		return d.documents.ArchiveClaimPDF(ctx, payload.ClaimID, payload.ObjectName)

	default:
		return fmt.Errorf("unknown outbox event type: %s", evt.EventType)
	}
}
