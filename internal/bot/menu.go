package bot

import (
	"context"

	"github.com/m3rciful/fitbot/internal/chat"
)

const (
	textInfo      = "Info"
	textCalculate = "Calculate"
	textBuy       = "Buy"
	textRegister  = "Register"

	callbackCalories = "calories"
	callbackFormulas = "formulas"

	msgGreeting = "Hello! I am a bot that helps you look after your health."
	msgInfo     = "I can calculate your daily calorie norm, register you and sell health products. Pick an option from the menu."
	msgFallback = "Use the /start command to begin."

	msgChooseOption = "Choose an option:"
	msgFormulas     = "Mifflin-St Jeor calorie norm formula:\n" +
		"for women:\n(10 x weight kg) + (6.25 x growth cm) - (5 x age) - 161\n" +
		"for men:\n(10 x weight kg) + (6.25 x growth cm) - (5 x age) + 5"
)

// handleStart abandons any in-progress flow and shows the main menu.
func (b *Bot) handleStart(ctx context.Context, ev chat.Event) error {
	b.sessions.Reset(ev.UserID)
	return b.reply(ctx, ev.UserID, chat.Reply{
		Text: msgGreeting,
		Menu: [][]string{{textInfo, textCalculate, textBuy, textRegister}},
	})
}

func (b *Bot) handleInfo(ctx context.Context, ev chat.Event) error {
	return b.reply(ctx, ev.UserID, chat.Reply{Text: msgInfo})
}

// handleCalculate shows the calculator submenu.
func (b *Bot) handleCalculate(ctx context.Context, ev chat.Event) error {
	return b.reply(ctx, ev.UserID, chat.Reply{
		Text: msgChooseOption,
		Buttons: []chat.Button{
			{Label: "Calorie norm", Data: callbackCalories},
			{Label: "Calculation formulas", Data: callbackFormulas},
		},
	})
}

func (b *Bot) handleFormulasCallback(ctx context.Context, ev chat.Event) error {
	return b.reply(ctx, ev.UserID, chat.Reply{Text: msgFormulas})
}

func (b *Bot) handleFallback(ctx context.Context, ev chat.Event) error {
	return b.reply(ctx, ev.UserID, chat.Reply{Text: msgFallback})
}
