package sender

import (
	"context"
	"errors"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

func TestEnqueueRunsJob(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 4})
	defer d.Close()

	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "test", func() error {
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestRetryOnTransientError(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 4, MaxRetries: 3, RetryDelay: time.Millisecond})

	var calls atomic.Int32
	done := make(chan struct{})
	_ = d.Enqueue(context.Background(), "test", func() error {
		if calls.Add(1) < 3 {
			return syscall.ECONNRESET
		}
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried to success")
	}
	d.Close()

	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
	if got := d.ErrorCount(); got != 0 {
		t.Fatalf("error count = %d, want 0", got)
	}
}

func TestPermanentErrorNotRetried(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 4, MaxRetries: 3, RetryDelay: time.Millisecond})

	var calls atomic.Int32
	_ = d.Enqueue(context.Background(), "test", func() error {
		calls.Add(1)
		return errors.New("bad request")
	})
	d.Close()

	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
	if got := d.ErrorCount(); got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	d.Close()

	err := d.Enqueue(context.Background(), "test", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}
