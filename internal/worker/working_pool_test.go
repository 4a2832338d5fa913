package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkingPoolExecutesSubmittedJobs(t *testing.T) {
	pool := NewWorkingPool(2, 8)

	ctx, cancel := context.WithCancel(context.Background())
	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	var executed atomic.Int64
	var jobsWg sync.WaitGroup
	for range 5 {
		jobsWg.Add(1)
		pool.SubmitJob(func(ctx context.Context) error {
			defer jobsWg.Done()
			executed.Add(1)
			return nil
		})
	}

	jobsWg.Wait()
	cancel()
	managerWg.Wait()

	assert.Equal(t, int64(5), executed.Load())
}

func TestWorkingPoolRecoversFromPanic(t *testing.T) {
	pool := NewWorkingPool(1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	var jobsWg sync.WaitGroup
	jobsWg.Add(2)
	pool.SubmitJob(func(ctx context.Context) error {
		defer jobsWg.Done()
		panic("job blew up")
	})

	var survived atomic.Bool
	pool.SubmitJob(func(ctx context.Context) error {
		defer jobsWg.Done()
		survived.Store(true)
		return nil
	})

	jobsWg.Wait()
	cancel()
	managerWg.Wait()

	assert.True(t, survived.Load())
}

func TestWorkingPoolShutdownWaitsForWorkers(t *testing.T) {
	pool := NewWorkingPool(3, 8)

	ctx, cancel := context.WithCancel(context.Background())
	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	cancel()
	// Wait must return once every worker has exited; a hang here fails
	// the test by timeout.
	managerWg.Wait()
}
