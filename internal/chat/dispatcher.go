package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/fitbot/core/logger"
)

// Dispatcher matches inbound events against an ordered rule list and invokes
// exactly one handler per event. Events from different users run in
// parallel; events from the same user are serialized so session mutations
// never interleave.
type Dispatcher struct {
	rules []Rule

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewDispatcher builds a dispatcher over the given rules. The slice order is
// the matching priority.
func NewDispatcher(rules []Rule) *Dispatcher {
	return &Dispatcher{
		rules: rules,
		locks: make(map[int64]*sync.Mutex),
	}
}

// Dispatch routes one event. It blocks while another event from the same
// user is being handled and returns the handler's error, if any.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	lock := d.userLock(ev.UserID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	for _, rule := range d.rules {
		if rule.Match == nil || !rule.Match(ev) {
			continue
		}
		err := rule.Handle(ctx, ev)
		d.logHandled(ctx, rule.Name, start, err)
		return err
	}

	logger.Debug(ctx, "bot", "dispatch.unmatched",
		slog.Int64("user_id", ev.UserID),
	)
	return nil
}

func (d *Dispatcher) logHandled(ctx context.Context, name string, start time.Time, err error) {
	status := "ok"
	attrs := []slog.Attr{
		slog.String("handler", name),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if err != nil {
		status = "fail"
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	}
	attrs = append([]slog.Attr{slog.String("status", status)}, attrs...)
	logger.Info(ctx, "bot", "handler.handled", attrs...)
}

func (d *Dispatcher) userLock(userID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[userID] = lock
	}
	return lock
}
