package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"doctorcar-service/internal/event"
	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"

	"github.com/robfig/cron/v3"
)

const outboxBatchSize = 50

// Scheduler drives the background jobs: the outbox drain every minute and
// the overdue installment sweep once a day. Jobs run on the working pool so
// a slow drain never blocks the cron loop.
type Scheduler struct {
	pool            *WorkingPool
	dispatcher      *event.OutboxDispatcher
	installmentRepo *repository.InstallmentRepository
	outboxRepo      *repository.OutboxRepository
	cron            *cron.Cron
}

func NewScheduler(
	pool *WorkingPool,
	dispatcher *event.OutboxDispatcher,
	installmentRepo *repository.InstallmentRepository,
	outboxRepo *repository.OutboxRepository,
) *Scheduler {
	return &Scheduler{
		pool:            pool,
		dispatcher:      dispatcher,
		installmentRepo: installmentRepo,
		outboxRepo:      outboxRepo,
		cron:            cron.New(),
	}
}

// Start registers the cron entries and begins scheduling
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", func() {
		s.pool.SubmitJob(s.drainOutbox)
	}); err != nil {
		return fmt.Errorf("failed to schedule outbox drain: %w", err)
	}

	if _, err := s.cron.AddFunc("@daily", func() {
		s.pool.SubmitJob(s.sweepOverdueInstallments)
	}); err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}

	s.cron.Start()
	slog.Info("scheduler started", "jobs", []string{"outbox_drain", "overdue_sweep"})
	return nil
}

// Stop halts the cron loop and waits for in-flight cron callbacks to
// return. Callers may only tear down the pool after Stop returns;
// otherwise a callback could submit to a closed job channel.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) drainOutbox(ctx context.Context) error {
	return s.dispatcher.Drain(ctx, outboxBatchSize)
}

// sweepOverdueInstallments enqueues a reminder for every unpaid installment
// past its due date that has not been reminded yet, then stamps the row so
// the next sweep skips it. Reminders go through the outbox like every other
// secondary effect.
func (s *Scheduler) sweepOverdueInstallments(ctx context.Context) error {
	overdue, err := s.installmentRepo.GetOverdue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to load overdue installments: %w", err)
	}

	for _, inst := range overdue {
		payload := overdueReminderPayload(inst)
		if err := s.outboxRepo.Enqueue(ctx, models.OutboxInstallmentOverdue, payload); err != nil {
			slog.Error("failed to enqueue overdue reminder", "installment_id", inst.ID, "error", err)
			continue
		}
		if err := s.installmentRepo.MarkReminded(ctx, inst.ID); err != nil {
			slog.Error("failed to mark installment reminded", "installment_id", inst.ID, "error", err)
		}
	}

	if len(overdue) > 0 {
		slog.Info("overdue sweep completed", "count", len(overdue))
	}

	return nil
}

func overdueReminderPayload(inst repository.OverdueInstallment) models.InstallmentOverduePayload {
	return models.InstallmentOverduePayload{
		UserID:            inst.ClientID.String(),
		InstallmentNumber: inst.InstallmentNumber,
		Amount:            inst.InstallmentAmount,
	}
}
