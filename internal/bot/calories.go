package bot

import (
	"context"
	"fmt"

	"github.com/m3rciful/fitbot/internal/chat"
	"github.com/m3rciful/fitbot/internal/domain"
	"github.com/m3rciful/fitbot/internal/flow"
)

const (
	msgAskAge    = "Enter your age:"
	msgAskGrowth = "Enter your growth:"
	msgAskWeight = "Enter your weight:"

	msgBadAge    = "Age must be a positive number!"
	msgBadGrowth = "Growth must be a positive number!"
	msgBadWeight = "Weight must be a positive number!"
)

// positiveNumber builds a step validator that accepts positive numeric
// input and re-prompts with the given message otherwise.
func positiveNumber(invalid string) func(context.Context, chat.Event) (any, string, error) {
	return func(_ context.Context, ev chat.Event) (any, string, error) {
		v, ok := domain.ParsePositive(ev.Text)
		if !ok {
			return nil, invalid, nil
		}
		return v, "", nil
	}
}

// handleCaloriesCallback starts the calorie conversation.
func (b *Bot) handleCaloriesCallback(ctx context.Context, ev chat.Event) error {
	b.sessions.SetState(ev.UserID, StateCalorieAge)
	return b.reply(ctx, ev.UserID, chat.Reply{Text: msgAskAge})
}

func (b *Bot) calorieFlow() flow.Flow {
	return flow.Flow{
		Name: "calorie",
		Steps: []flow.Step{
			{
				State:      StateCalorieAge,
				Validate:   positiveNumber(msgBadAge),
				Key:        "age",
				Next:       StateCalorieGrowth,
				NextPrompt: msgAskGrowth,
			},
			{
				State:      StateCalorieGrowth,
				Validate:   positiveNumber(msgBadGrowth),
				Key:        "growth",
				Next:       StateCalorieWeight,
				NextPrompt: msgAskWeight,
			},
			{
				State:    StateCalorieWeight,
				Validate: positiveNumber(msgBadWeight),
				Key:      "weight",
				Finish:   b.finishCalories,
			},
		},
	}
}

func (b *Bot) finishCalories(ctx context.Context, ev chat.Event, data map[string]any) error {
	age, _ := data["age"].(float64)
	growth, _ := data["growth"].(float64)
	weight, _ := data["weight"].(float64)

	norm := domain.Calories(domain.GenderMale, age, growth, weight)
	b.sessions.Reset(ev.UserID)
	return b.reply(ctx, ev.UserID, chat.Reply{
		Text: fmt.Sprintf("Your calorie norm: %g", norm),
	})
}
