package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEvaluator remembers which job IDs it was asked to run.
type recordingEvaluator struct {
	mu   sync.Mutex
	seen []uint
}

func (e *recordingEvaluator) EvaluateCandidate(ctx context.Context, jobID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = append(e.seen, jobID)
	return nil
}

func (e *recordingEvaluator) jobs() []uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]uint(nil), e.seen...)
}

func TestWorker_ProcessesEnqueuedJobs(t *testing.T) {
	jobRepo := newStubJobRepo()
	evaluator := &recordingEvaluator{}

	w := NewWorker(jobRepo, evaluator, 2)
	w.Start(context.Background())

	w.EnqueueJob(1)
	w.EnqueueJob(2)
	w.EnqueueJob(3)

	require.Eventually(t, func() bool {
		return len(evaluator.jobs()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	w.Stop()

	assert.ElementsMatch(t, []uint{1, 2, 3}, evaluator.jobs())
}

func TestWorker_StopDrainsWorkers(t *testing.T) {
	jobRepo := newStubJobRepo()
	evaluator := &recordingEvaluator{}

	w := NewWorker(jobRepo, evaluator, 1)
	w.Start(context.Background())

	// Stop must return once all worker goroutines exit.
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop in time")
	}
}
