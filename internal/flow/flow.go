// Package flow runs multi-step conversation flows as explicit transition
// tables. Each step names its state, how the input is validated, which key
// of the session data bag it fills, and either the next state with its
// prompt or a terminal effect.
package flow

import (
	"context"
	"fmt"

	"github.com/m3rciful/fitbot/internal/chat"
	"github.com/m3rciful/fitbot/internal/session"
)

// Step describes one state of a flow.
type Step struct {
	State session.State

	// Validate inspects the inbound event and returns the value to store,
	// or a non-empty corrective message. On a corrective message the user
	// is re-prompted and the session is left exactly where it was. An
	// error (such as a failed storage lookup) is surfaced to the caller
	// without advancing the session. A nil Validate accepts the raw text.
	Validate func(ctx context.Context, ev chat.Event) (any, string, error)

	// Key is the data bag key the validated value is stored under.
	Key string

	// Next and NextPrompt advance the session and ask for the next input.
	Next       session.State
	NextPrompt string

	// Finish, when set, runs the terminal effect instead of advancing. It
	// owns the final reply and the session reset.
	Finish func(ctx context.Context, ev chat.Event, data map[string]any) error
}

// Flow is a named ordered set of steps.
type Flow struct {
	Name  string
	Steps []Step
}

// Engine routes events to the step registered for the user's current state.
type Engine struct {
	sessions *session.Store
	replier  chat.Replier
	steps    map[session.State]Step
}

// NewEngine constructs an engine over the shared session store and replier.
func NewEngine(sessions *session.Store, replier chat.Replier) *Engine {
	return &Engine{
		sessions: sessions,
		replier:  replier,
		steps:    make(map[session.State]Step),
	}
}

// Register adds a flow's steps. A state may belong to exactly one flow.
func (e *Engine) Register(f Flow) error {
	for _, step := range f.Steps {
		if _, exists := e.steps[step.State]; exists {
			return fmt.Errorf("flow %s: state %q already registered", f.Name, step.State)
		}
		if step.Next == "" && step.Finish == nil {
			return fmt.Errorf("flow %s: state %q has neither next state nor finish", f.Name, step.State)
		}
		e.steps[step.State] = step
	}
	return nil
}

// Handles reports whether a step is registered for the given state.
func (e *Engine) Handles(st session.State) bool {
	_, ok := e.steps[st]
	return ok
}

// Handle runs the step for the user's current state. Validation failures
// re-prompt and leave state and data untouched; successful input is stored
// and the session advances or finishes.
func (e *Engine) Handle(ctx context.Context, ev chat.Event) error {
	step, ok := e.steps[e.sessions.State(ev.UserID)]
	if !ok {
		return nil
	}

	value := any(ev.Text)
	if step.Validate != nil {
		v, reject, err := step.Validate(ctx, ev)
		if err != nil {
			return err
		}
		if reject != "" {
			return e.replier.Reply(ctx, ev.UserID, chat.Reply{Text: reject})
		}
		value = v
	}
	if step.Key != "" {
		e.sessions.MergeData(ev.UserID, step.Key, value)
	}

	if step.Finish != nil {
		return step.Finish(ctx, ev, e.sessions.Data(ev.UserID))
	}

	e.sessions.SetState(ev.UserID, step.Next)
	return e.replier.Reply(ctx, ev.UserID, chat.Reply{Text: step.NextPrompt})
}
