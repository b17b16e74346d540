package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBackoff returns a Backoff that records sleeps instead of sleeping and
// uses a fixed jitter value.
func testBackoff(delays []time.Duration, jitter time.Duration) (*Backoff, *[]time.Duration) {
	var slept []time.Duration
	b := NewBackoff(delays, 250*time.Millisecond)
	b.sleep = func(d time.Duration) { slept = append(slept, d) }
	b.jitter = func() time.Duration { return jitter }
	return b, &slept
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	b, slept := testBackoff(DefaultBackoffDelays, 10*time.Millisecond)

	calls := 0
	result, err := Retry(context.Background(), b, func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestRetry_FailsNThenSucceeds(t *testing.T) {
	b, slept := testBackoff(DefaultBackoffDelays, 10*time.Millisecond)

	calls := 0
	result, err := Retry(context.Background(), b, func(ctx context.Context) (int, error) {
		calls++
		if calls <= 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)

	// One sleep per failure, each delay plus non-negative jitter.
	require.Len(t, *slept, 2)
	assert.Equal(t, 500*time.Millisecond+10*time.Millisecond, (*slept)[0])
	assert.Equal(t, time.Second+10*time.Millisecond, (*slept)[1])
}

func TestRetry_ExhaustsSchedule(t *testing.T) {
	b, slept := testBackoff(DefaultBackoffDelays, 0)

	calls := 0
	_, err := Retry(context.Background(), b, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("always failing")
	})

	require.Error(t, err)
	// One initial try plus one retry per scheduled delay.
	assert.Equal(t, len(DefaultBackoffDelays)+1, calls)
	assert.Len(t, *slept, len(DefaultBackoffDelays))
	assert.Contains(t, err.Error(), "always failing")
	assert.Contains(t, err.Error(), "failed after 4 attempts")
}

func TestRetry_ContextCancelledStopsRetrying(t *testing.T) {
	b, _ := testBackoff(DefaultBackoffDelays, 0)

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Retry(ctx, b, func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", errors.New("transient")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewBackoff_JitterIsBounded(t *testing.T) {
	b := NewBackoff(DefaultBackoffDelays, DefaultBackoffJitter)

	for i := 0; i < 100; i++ {
		j := b.jitter()
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.Less(t, j, DefaultBackoffJitter)
	}
}

func TestResilientGemini_RetriesGeneration(t *testing.T) {
	b, slept := testBackoff(DefaultBackoffDelays, 0)

	inner := &flakyGemini{failures: 1}
	llm := NewResilientGemini(inner, b)

	text, err := llm.GenerateText(context.Background(), "prompt", "system", 0.7)
	require.NoError(t, err)
	assert.Equal(t, "generated", text)
	assert.Len(t, *slept, 1)
}

// flakyGemini fails its first N calls, then succeeds.
type flakyGemini struct {
	failures int
	calls    int
}

func (f *flakyGemini) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("transient embed failure")
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

func (f *flakyGemini) GenerateText(ctx context.Context, prompt, system string, temperature float32) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("transient generate failure")
	}
	return "generated", nil
}
