// Package bot wires the concrete conversation handlers: the main menu, the
// product catalog, the calorie calculator flow and the user registration
// flow.
package bot

import (
	"context"
	"fmt"

	"github.com/m3rciful/fitbot/internal/catalog"
	"github.com/m3rciful/fitbot/internal/chat"
	"github.com/m3rciful/fitbot/internal/flow"
	"github.com/m3rciful/fitbot/internal/session"
	"github.com/m3rciful/fitbot/internal/users"
)

// Conversation states. Every state belongs to exactly one flow.
const (
	StateCalorieAge    = session.State("calorie:await_age")
	StateCalorieGrowth = session.State("calorie:await_growth")
	StateCalorieWeight = session.State("calorie:await_weight")

	StateRegUsername = session.State("register:await_username")
	StateRegEmail    = session.State("register:await_email")
	StateRegAge      = session.State("register:await_age")
)

// Bot holds the collaborators shared by all handlers.
type Bot struct {
	sessions *session.Store
	replier  chat.Replier
	engine   *flow.Engine
	products []catalog.Product
	users    *users.Repository
}

// Options declares the collaborators a Bot needs.
type Options struct {
	Sessions *session.Store
	Replier  chat.Replier
	Products []catalog.Product
	Users    *users.Repository
}

// New builds the bot and registers both conversation flows.
func New(opts Options) (*Bot, error) {
	b := &Bot{
		sessions: opts.Sessions,
		replier:  opts.Replier,
		products: opts.Products,
		users:    opts.Users,
	}
	b.engine = flow.NewEngine(opts.Sessions, opts.Replier)

	if err := b.engine.Register(b.calorieFlow()); err != nil {
		return nil, fmt.Errorf("bot: %w", err)
	}
	if err := b.engine.Register(b.registrationFlow()); err != nil {
		return nil, fmt.Errorf("bot: %w", err)
	}
	return b, nil
}

// Rules returns the dispatch rules in matching priority order: the start
// command, the fixed menu texts, the per-state flow steps, the callback
// handlers, and the catch-all.
func (b *Bot) Rules() []chat.Rule {
	return []chat.Rule{
		chat.Command("/start", b.handleStart),

		chat.Text(textInfo, "info", b.handleInfo),
		chat.Text(textCalculate, "calculate", b.handleCalculate),
		chat.Text(textBuy, "buy", b.handleBuy),
		chat.Text(textRegister, "register", b.handleRegister),

		{
			Name: "fsm",
			Match: func(ev chat.Event) bool {
				return ev.Kind == chat.KindText && b.engine.Handles(b.sessions.State(ev.UserID))
			},
			Handle: b.engine.Handle,
		},

		chat.Callback(callbackCalories, b.handleCaloriesCallback),
		chat.Callback(callbackFormulas, b.handleFormulasCallback),
		chat.CallbackPrefix(callbackProductBuying, b.handleProductBuying),

		{
			Name:   "fallback",
			Match:  func(ev chat.Event) bool { return true },
			Handle: b.handleFallback,
		},
	}
}

func (b *Bot) reply(ctx context.Context, userID int64, r chat.Reply) error {
	return b.replier.Reply(ctx, userID, r)
}
