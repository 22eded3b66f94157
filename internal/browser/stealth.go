package browser

import (
	"context"
	"math/rand"
	"time"
)

// Pacer spaces out browser actions with randomized delays
type Pacer interface {
	Sleep(ctx context.Context, d time.Duration) error
	Jitter(ctx context.Context, min, max time.Duration) error
}

// HumanPacer sleeps for real
type HumanPacer struct{}

func (HumanPacer) Sleep(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

func (HumanPacer) Jitter(ctx context.Context, min, max time.Duration) error {
	return RandomDelay(ctx, min, max)
}

// RandomDelay waits for a random duration in [min, max]
func RandomDelay(ctx context.Context, min, max time.Duration) error {
	return sleep(ctx, RandomDuration(min, max))
}

// RandomDuration picks a duration in [min, max]
func RandomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
