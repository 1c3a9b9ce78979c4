package utils

import (
	"context"
	"math/rand/v2"
	"time"
)

// RandomDelay sleeps for a duration drawn uniformly from [lo, hi]. It
// returns ctx.Err() if ctx ends first.
func RandomDelay(ctx context.Context, lo, hi time.Duration) error {
	if hi < lo {
		lo, hi = hi, lo
	}
	d := lo
	if span := hi - lo; span > 0 {
		d += time.Duration(rand.Int64N(int64(span) + 1))
	}
	return Sleep(ctx, d)
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
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
