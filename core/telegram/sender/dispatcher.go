// Package sender provides an asynchronous outbound queue for Bot API calls.
// Handlers enqueue send closures and return immediately; workers run them
// with bounded retries so slow or flaky deliveries never block update
// processing.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/fitbot/core/logger"
	"github.com/m3rciful/fitbot/core/telegram/netutil"
)

var (
	// ErrQueueFull is returned when the outbound queue has no free slots.
	ErrQueueFull = errors.New("sender: queue is full")
	// ErrQueueClosed is returned when the dispatcher is shutting down.
	ErrQueueClosed = errors.New("sender: queue is closed")
)

// Options configures the dispatcher. Zero values fall back to defaults.
type Options struct {
	Workers    int
	QueueSize  int
	MaxRetries int
	RetryDelay time.Duration
}

type job struct {
	ctx  context.Context
	name string
	run  func() error
}

// Dispatcher owns the worker pool draining the outbound queue.
type Dispatcher struct {
	jobs    chan job
	wg      sync.WaitGroup
	closed  atomic.Bool
	errs    atomic.Int64
	retries int
	delay   time.Duration
}

// NewDispatcher starts the worker pool and returns the dispatcher.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 300 * time.Millisecond
	}

	d := &Dispatcher{
		jobs:    make(chan job, opts.QueueSize),
		retries: opts.MaxRetries,
		delay:   opts.RetryDelay,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue schedules run for asynchronous execution. The run closure must be
// safe to call more than once because failed sends are retried.
func (d *Dispatcher) Enqueue(ctx context.Context, name string, run func() error) error {
	if run == nil {
		return nil
	}
	if d.closed.Load() {
		return ErrQueueClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case d.jobs <- job{ctx: ctx, name: name, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of jobs that exhausted all retries.
func (d *Dispatcher) ErrorCount() int64 {
	return d.errs.Load()
}

// Close stops accepting new jobs and waits for queued ones to drain.
func (d *Dispatcher) Close() {
	if d.closed.Swap(true) {
		return
	}
	close(d.jobs)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handle(j)
	}
}

func (d *Dispatcher) handle(j job) {
	start := time.Now()
	var err error
	for attempt := 1; attempt <= d.retries; attempt++ {
		if err = j.ctx.Err(); err != nil {
			break
		}
		if err = j.run(); err == nil {
			break
		}
		if !netutil.ShouldRetry(err) || attempt == d.retries {
			break
		}
		select {
		case <-j.ctx.Done():
		case <-time.After(time.Duration(attempt) * d.delay):
		}
	}

	attrs := []slog.Attr{
		slog.String("event", "send"),
		slog.String("op", j.name),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	}
	if rid := logger.RIDFrom(j.ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	if err != nil {
		d.errs.Add(1)
		attrs = append(attrs, slog.String("err", err.Error()))
		logger.TG.LogAttrs(j.ctx, slog.LevelError, "send failed", attrs...)
		return
	}
	logger.TG.LogAttrs(j.ctx, slog.LevelDebug, "sent", attrs...)
}
