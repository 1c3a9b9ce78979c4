package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryReturnsLastError(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond, Logger: NewLogger()}

	errs := []error{errors.New("first"), errors.New("second"), errors.New("third")}
	calls := 0
	err := r.Do(context.Background(), "flaky", func() error {
		err := errs[calls]
		calls++
		return err
	})

	if calls != 3 {
		t.Errorf("calls = %d; want 3", calls)
	}
	if err != errs[2] {
		t.Errorf("err = %v; want the third error unchanged", err)
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 5, Delay: time.Millisecond}

	calls := 0
	got, err := Retry(context.Background(), r, "render", func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("not yet")
		}
		return "<html></html>", nil
	})
	if err != nil || got != "<html></html>" {
		t.Fatalf("Retry = %q, %v", got, err)
	}
	if calls != 2 {
		t.Errorf("calls = %d; want 2", calls)
	}
}

func TestRandomDelayBounds(t *testing.T) {
	start := time.Now()
	if err := RandomDelay(context.Background(), 20*time.Millisecond, 30*time.Millisecond); err != nil {
		t.Fatalf("RandomDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("slept %v; want at least 20ms", elapsed)
	}
}

func TestRandomDelayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := RandomDelay(ctx, time.Hour, 2*time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v; want context.Canceled", err)
	}
}
