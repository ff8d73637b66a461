package bot

import (
	"context"
	"errors"

	"github.com/m3rciful/fitbot/internal/chat"
	"github.com/m3rciful/fitbot/internal/domain"
	"github.com/m3rciful/fitbot/internal/flow"
	"github.com/m3rciful/fitbot/internal/users"
)

const (
	msgAskUsername = "Enter a username (latin letters only):"
	msgAskEmail    = "Enter your email:"

	msgBadUsername   = "Latin letters only"
	msgUsernameTaken = "This user already exists, enter another name"
	msgRegistered    = "Registration complete!"
)

// handleRegister starts the registration conversation.
func (b *Bot) handleRegister(ctx context.Context, ev chat.Event) error {
	b.sessions.SetState(ev.UserID, StateRegUsername)
	return b.reply(ctx, ev.UserID, chat.Reply{Text: msgAskUsername})
}

func (b *Bot) registrationFlow() flow.Flow {
	return flow.Flow{
		Name: "registration",
		Steps: []flow.Step{
			{
				State:      StateRegUsername,
				Validate:   b.validateUsername,
				Key:        "username",
				Next:       StateRegEmail,
				NextPrompt: msgAskEmail,
			},
			{
				State:      StateRegEmail,
				Key:        "email",
				Next:       StateRegAge,
				NextPrompt: msgAskAge,
			},
			{
				State:    StateRegAge,
				Validate: positiveNumber(msgBadAge),
				Key:      "age",
				Finish:   b.finishRegistration,
			},
		},
	}
}

// validateUsername enforces the alphabet restriction and rejects names that
// are already registered.
func (b *Bot) validateUsername(ctx context.Context, ev chat.Event) (any, string, error) {
	if !domain.IsASCIILetters(ev.Text) {
		return nil, msgBadUsername, nil
	}
	taken, err := b.users.Exists(ctx, ev.Text)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, msgUsernameTaken, nil
	}
	return ev.Text, "", nil
}

func (b *Bot) finishRegistration(ctx context.Context, ev chat.Event, data map[string]any) error {
	username, _ := data["username"].(string)
	email, _ := data["email"].(string)
	age, _ := data["age"].(float64)

	if _, err := b.users.Add(ctx, username, email, int(age)); err != nil {
		// Somebody else claimed the name between the username step and
		// here. Ask for a new one instead of failing the whole flow.
		if errors.Is(err, users.ErrUsernameTaken) {
			b.sessions.SetState(ev.UserID, StateRegUsername)
			return b.reply(ctx, ev.UserID, chat.Reply{Text: msgUsernameTaken})
		}
		return err
	}

	b.sessions.Reset(ev.UserID)
	return b.reply(ctx, ev.UserID, chat.Reply{Text: msgRegistered})
}
