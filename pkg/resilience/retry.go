package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

func (b Backoff) withDefaults() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = 3
	}
	if b.Initial <= 0 {
		b.Initial = 100 * time.Millisecond
	}
	if b.Max <= 0 {
		b.Max = 5 * time.Second
	}
	return b
}

// delay doubles per attempt, capped at Max, with up to 10% jitter either way.
func (b Backoff) delay(attempt int) time.Duration {
	d := b.Initial
	for i := 1; i < attempt && d < b.Max; i++ {
		d *= 2
	}
	d = min(d, b.Max)
	jitter := time.Duration((rand.Float64()*2 - 1) * 0.1 * float64(d))
	return d + jitter
}

// Retry calls fn until it succeeds, the attempts run out, or ctx ends.
func Retry(ctx context.Context, name string, b Backoff, fn func(context.Context) error) error {
	b = b.withDefaults()
	log := slog.Default().With("component", "retry", "operation", name)
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == b.Attempts {
			return fmt.Errorf("%s failed after %d attempts: %w", name, attempt, err)
		}
		wait := b.delay(attempt)
		log.Warn("attempt failed, retrying", "attempt", attempt, "error", err, "next_delay", wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		}
	}
}
