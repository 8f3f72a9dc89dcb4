package proxy

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUploadLimiter_AcquireRelease(t *testing.T) {
	l := NewUploadLimiter(2, 50*time.Millisecond)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if got := l.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount() = %d, want 2", got)
	}

	if err := l.Acquire(ctx); !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("Acquire() on full limiter = %v, want ErrTooManyUploads", err)
	}

	l.Release()
	st := l.Status()
	if st.Active != 1 || st.Available != 1 || st.MaxConcurrent != 2 {
		t.Errorf("Status() = %+v", st)
	}
	l.Release()
}

func TestUploadLimiter_Defaults(t *testing.T) {
	l := NewUploadLimiter(0, 0)
	if got := l.Status().MaxConcurrent; got != DefaultMaxConcurrentUploads {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentUploads)
	}
}

func TestUploadLimiter_CanceledContext(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)
	_ = l.Acquire(context.Background())
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() = %v, want context.Canceled", err)
	}
}

func TestUploadLimiter_WaitForDrain(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)
	if err := l.WaitForDrain(context.Background()); err != nil {
		t.Fatalf("WaitForDrain() on idle limiter = %v", err)
	}

	_ = l.Acquire(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		l.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain() = %v", err)
	}
}

func TestUploadLimiter_WaitForDrainTimeout(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)
	_ = l.Acquire(context.Background())
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain() = %v, want deadline exceeded", err)
	}
}
