package worker

import (
	"context"
	"sync"
	"testing"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSchedulerStartStop(t *testing.T) {
	pool := NewWorkingPool(1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	scheduler := NewScheduler(pool, nil, nil, nil)
	assert.NoError(t, scheduler.Start())

	// Stop must only return once in-flight cron callbacks have finished,
	// so tearing down the pool afterwards can never race a SubmitJob.
	scheduler.Stop()

	cancel()
	managerWg.Wait()
}

func TestOverdueReminderPayload(t *testing.T) {
	clientID := uuid.New()
	overdue := repository.OverdueInstallment{
		Installment: models.Installment{
			InstallmentNumber: 3,
			InstallmentAmount: 125.5,
		},
		ClientID: clientID,
	}

	payload := overdueReminderPayload(overdue)

	assert.Equal(t, clientID.String(), payload.UserID)
	assert.Equal(t, 3, payload.InstallmentNumber)
	assert.Equal(t, 125.5, payload.Amount)
}
