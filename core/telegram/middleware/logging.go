package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/fitbot/core/logger"
)

// UpdateKind classifies an update for logging and rate limiting.
func UpdateKind(c tele.Context) string {
	switch {
	case c.Callback() != nil:
		return "callback"
	case c.Message() != nil:
		return "message"
	default:
		return "other"
	}
}

// Logging records every incoming update at debug level with its request id.
func Logging() func(next tele.HandlerFunc) tele.HandlerFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			var userID, chatID int64
			if s := c.Sender(); s != nil {
				userID = s.ID
			}
			if ch := c.Chat(); ch != nil {
				chatID = ch.ID
			}
			logger.TG.Debug("update received",
				slog.String("event", "update.received"),
				slog.String("kind", UpdateKind(c)),
				slog.String("rid", logger.BuildRID(c.Update().ID, chatID, userID)),
			)
			return next(c)
		}
	}
}
