// Package telegram adapts telebot updates and replies to the transport
// neutral chat model used by the handlers.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/fitbot/core/logger"
	coretelegram "github.com/m3rciful/fitbot/core/telegram"
	"github.com/m3rciful/fitbot/core/telegram/keyboard"
	tgsender "github.com/m3rciful/fitbot/core/telegram/sender"
	"github.com/m3rciful/fitbot/internal/chat"
)

// Sender delivers chat replies through the outbound queue. It implements
// chat.Replier. The bot instance only exists once the transport is running,
// so the sender is constructed empty and bound on startup.
type Sender struct {
	mu    sync.RWMutex
	bot   *tele.Bot
	queue *tgsender.Dispatcher
}

// NewSender returns an unbound sender. Bind must be called before the first
// update is dispatched.
func NewSender() *Sender {
	return &Sender{}
}

// Bind attaches the live bot and its outbound queue.
func (s *Sender) Bind(bot *tele.Bot, queue *tgsender.Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bot = bot
	s.queue = queue
}

// Reply enqueues the message for asynchronous delivery. When the queue is
// full or already closed the send runs inline so the user still gets an
// answer.
func (s *Sender) Reply(ctx context.Context, userID int64, r chat.Reply) error {
	s.mu.RLock()
	bound := s.bot != nil && s.queue != nil
	s.mu.RUnlock()
	if !bound {
		return errors.New("telegram: sender is not bound")
	}
	run := func() error { return s.send(ctx, userID, r) }
	if err := s.queue.Enqueue(ctx, "reply", run); err != nil {
		return run()
	}
	return nil
}

func (s *Sender) send(ctx context.Context, userID int64, r chat.Reply) error {
	recipient := tele.ChatID(userID)
	markup := buildMarkup(r)

	if r.Photo != "" {
		file, err := os.Open(r.Photo)
		if err == nil {
			defer file.Close()
			photo := &tele.Photo{File: tele.FromReader(file), Caption: r.Text}
			if markup != nil {
				_, err = s.bot.Send(recipient, photo, markup)
			} else {
				_, err = s.bot.Send(recipient, photo)
			}
			return err
		}
		// Missing attachments degrade to plain text.
		logger.Warn(ctx, "tg", "attachment.missing",
			slog.String("path", r.Photo),
			slog.String("err", err.Error()),
		)
	}

	var err error
	if markup != nil {
		_, err = s.bot.Send(recipient, r.Text, markup)
	} else {
		_, err = s.bot.Send(recipient, r.Text)
	}
	return err
}

func buildMarkup(r chat.Reply) *tele.ReplyMarkup {
	switch {
	case len(r.Menu) > 0:
		return keyboard.Reply(r.Menu)
	case len(r.Buttons) > 0:
		buttons := make([]keyboard.InlineButton, 0, len(r.Buttons))
		for _, b := range r.Buttons {
			buttons = append(buttons, keyboard.InlineButton{Label: b.Label, Data: b.Data})
		}
		return keyboard.Inline(buttons)
	default:
		return nil
	}
}

// Routes returns the telebot endpoints feeding the chat dispatcher. All
// texts, commands and callbacks funnel through the same dispatch path.
func Routes(d *chat.Dispatcher) func(rt coretelegram.Runtime) []coretelegram.Route {
	return func(rt coretelegram.Runtime) []coretelegram.Route {
		return []coretelegram.Route{
			{Endpoint: tele.OnText, Handler: func(c tele.Context) error {
				sender := c.Sender()
				if sender == nil {
					return nil
				}
				ev := chat.Event{UserID: sender.ID, Kind: chat.KindText, Text: c.Text()}
				if strings.HasPrefix(ev.Text, "/") {
					ev.Kind = chat.KindCommand
				}
				dispatch(updateContext(c), d, ev)
				return nil
			}},
			{Endpoint: tele.OnCallback, Handler: func(c tele.Context) error {
				sender := c.Sender()
				cb := c.Callback()
				if sender == nil || cb == nil {
					return nil
				}
				// Ack first so the client stops the spinner even if the
				// handler fails.
				_ = c.Respond()
				ev := chat.Event{
					UserID:  sender.ID,
					Kind:    chat.KindCallback,
					Payload: strings.TrimPrefix(cb.Data, "\f"),
				}
				dispatch(updateContext(c), d, ev)
				return nil
			}},
		}
	}
}

// dispatch runs the event on its own goroutine so a slow handler never
// stalls the update loop. The dispatcher serializes events per user and
// logs handler errors itself.
func dispatch(ctx context.Context, d *chat.Dispatcher, ev chat.Event) {
	go func() {
		_ = d.Dispatch(ctx, ev)
	}()
}

func updateContext(c tele.Context) context.Context {
	var chatID, userID int64
	if ch := c.Chat(); ch != nil {
		chatID = ch.ID
	}
	if s := c.Sender(); s != nil {
		userID = s.ID
	}
	ctx := logger.WithRID(context.Background(),
		logger.BuildRID(c.Update().ID, chatID, userID))
	return logger.WithUpdateMeta(ctx, c.Update().ID, userID, chatID)
}
