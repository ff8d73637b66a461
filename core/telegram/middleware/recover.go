// Package middleware holds global bot middlewares.
package middleware

import (
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/fitbot/core/logger"
)

// Recover traps panics from downstream handlers so a single bad update
// cannot take down the poller.
func Recover() func(next tele.HandlerFunc) tele.HandlerFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.TG.Error("handler panic",
						slog.String("event", "panic"),
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)
				}
			}()
			return next(c)
		}
	}
}
