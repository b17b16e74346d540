package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// DefaultBackoffDelays is the schedule used when none is configured. One
// initial attempt plus one retry per delay gives four attempts in total.
var DefaultBackoffDelays = []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}

const DefaultBackoffJitter = 250 * time.Millisecond

// Backoff holds a fixed retry schedule with uniform jitter. Every error is
// treated as retryable, including permanent ones; distinguishing terminal
// failures (bad credentials, malformed requests) from transient ones would
// avoid burning the whole schedule on them, but the current callers accept
// the simpler contract.
type Backoff struct {
	Delays []time.Duration
	Jitter time.Duration

	sleep  func(time.Duration)
	jitter func() time.Duration
}

func NewBackoff(delays []time.Duration, jitter time.Duration) *Backoff {
	b := &Backoff{
		Delays: delays,
		Jitter: jitter,
		sleep:  time.Sleep,
	}
	b.jitter = func() time.Duration {
		if b.Jitter <= 0 {
			return 0
		}
		return time.Duration(rand.Int63n(int64(b.Jitter)))
	}
	return b
}

func (b *Backoff) attempts() int {
	return len(b.Delays) + 1
}

// Retry runs op up to len(b.Delays)+1 times, sleeping delay+jitter between
// attempts. The last error is returned once the schedule is exhausted; a
// cancelled context short-circuits the remaining attempts.
func Retry[T any](ctx context.Context, b *Backoff, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < b.attempts(); attempt++ {
		if attempt > 0 {
			b.sleep(b.Delays[attempt-1] + b.jitter())
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return zero, fmt.Errorf("failed after %d attempts: %w", b.attempts(), lastErr)
}

// resilientGemini decorates a GeminiService with the retry schedule, so the
// retriever and evaluator never talk to the raw client directly.
type resilientGemini struct {
	inner   GeminiService
	backoff *Backoff
}

func NewResilientGemini(inner GeminiService, backoff *Backoff) GeminiService {
	return &resilientGemini{inner: inner, backoff: backoff}
}

// EmbedTexts implements GeminiService.
func (r *resilientGemini) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return Retry(ctx, r.backoff, func(ctx context.Context) ([][]float32, error) {
		return r.inner.EmbedTexts(ctx, texts)
	})
}

// GenerateText implements GeminiService.
func (r *resilientGemini) GenerateText(ctx context.Context, prompt, system string, temperature float32) (string, error) {
	return Retry(ctx, r.backoff, func(ctx context.Context) (string, error) {
		return r.inner.GenerateText(ctx, prompt, system, temperature)
	})
}
