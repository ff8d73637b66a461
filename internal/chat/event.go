// Package chat defines the transport-neutral inbound event and outbound
// reply model, plus the dispatcher that routes each event to exactly one
// handler. The Telegram transport adapts to these types at the edge.
package chat

import "context"

// Kind classifies an inbound event.
type Kind int

const (
	// KindText is a plain text message.
	KindText Kind = iota
	// KindCommand is a slash command such as "/start".
	KindCommand
	// KindCallback is an inline button press carrying a payload.
	KindCallback
)

// Event is a single inbound update from one user.
type Event struct {
	UserID int64
	Kind   Kind
	Text   string
	// Payload carries callback data in the "<action> <argument>" convention.
	Payload string
}

// Button describes one inline button with its callback payload.
type Button struct {
	Label string
	Data  string
}

// Reply is an outbound message. Photo references an image file and is
// optional; when the file cannot be read the transport falls back to a
// text-only message.
type Reply struct {
	Text    string
	Photo   string
	Buttons []Button
	// Menu declares rows of a persistent reply keyboard.
	Menu [][]string
}

// Replier delivers replies back to a user.
type Replier interface {
	Reply(ctx context.Context, userID int64, r Reply) error
}

// HandlerFunc processes one matched event.
type HandlerFunc func(ctx context.Context, ev Event) error

// Rule pairs a match predicate with its handler. Rules are evaluated in
// registration order and the first match wins.
type Rule struct {
	Name   string
	Match  func(ev Event) bool
	Handle HandlerFunc
}

// Command builds a rule matching an exact slash command.
func Command(name string, h HandlerFunc) Rule {
	return Rule{
		Name: "cmd." + name[1:],
		Match: func(ev Event) bool {
			return ev.Kind == KindCommand && ev.Text == name
		},
		Handle: h,
	}
}

// Text builds a rule matching a fixed text message regardless of state.
func Text(text, name string, h HandlerFunc) Rule {
	return Rule{
		Name: "text." + name,
		Match: func(ev Event) bool {
			return ev.Kind == KindText && ev.Text == text
		},
		Handle: h,
	}
}

// Callback builds a rule matching an exact callback payload.
func Callback(key string, h HandlerFunc) Rule {
	return Rule{
		Name: "callback." + key,
		Match: func(ev Event) bool {
			return ev.Kind == KindCallback && ev.Payload == key
		},
		Handle: h,
	}
}

// CallbackPrefix builds a rule matching callback payloads of the form
// "<action> <argument>" by their action prefix.
func CallbackPrefix(action string, h HandlerFunc) Rule {
	prefix := action + " "
	return Rule{
		Name: "callback." + action,
		Match: func(ev Event) bool {
			return ev.Kind == KindCallback && len(ev.Payload) > len(prefix) && ev.Payload[:len(prefix)] == prefix
		},
		Handle: h,
	}
}

// Argument extracts the argument part of a "<action> <argument>" payload.
func (e Event) Argument(action string) string {
	prefix := action + " "
	if len(e.Payload) <= len(prefix) || e.Payload[:len(prefix)] != prefix {
		return ""
	}
	return e.Payload[len(prefix):]
}
