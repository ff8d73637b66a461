package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/fitbot/core/logger"
)

// RateLimit drops updates arriving from the same user faster than the
// configured interval. Update kinds listed in exclude are never throttled.
func RateLimit(interval time.Duration, exclude []string) func(next tele.HandlerFunc) tele.HandlerFunc {
	excluded := make(map[string]struct{}, len(exclude))
	for _, kind := range exclude {
		excluded[kind] = struct{}{}
	}

	var mu sync.Mutex
	lastSeen := make(map[int64]time.Time)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if interval <= 0 {
				return next(c)
			}
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			if _, ok := excluded[UpdateKind(c)]; ok {
				return next(c)
			}

			now := time.Now()
			mu.Lock()
			last, seen := lastSeen[sender.ID]
			if seen && now.Sub(last) < interval {
				mu.Unlock()
				logger.TG.Debug("update throttled",
					slog.String("event", "rate.limited"),
					slog.Int64("user_id", sender.ID),
				)
				return nil
			}
			lastSeen[sender.ID] = now
			mu.Unlock()

			return next(c)
		}
	}
}
