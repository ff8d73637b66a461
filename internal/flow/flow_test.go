package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/fitbot/internal/chat"
	"github.com/m3rciful/fitbot/internal/session"
)

type fakeReplier struct {
	replies []chat.Reply
}

func (f *fakeReplier) Reply(_ context.Context, _ int64, r chat.Reply) error {
	f.replies = append(f.replies, r)
	return nil
}

func (f *fakeReplier) last(t *testing.T) chat.Reply {
	t.Helper()
	require.NotEmpty(t, f.replies)
	return f.replies[len(f.replies)-1]
}

const (
	stepOne = session.State("test:one")
	stepTwo = session.State("test:two")
)

func numberOnly(_ context.Context, ev chat.Event) (any, string, error) {
	if ev.Text != "1" {
		return nil, "must be 1", nil
	}
	return 1, "", nil
}

func twoStepFlow(done *map[string]any, sessions *session.Store, rep *fakeReplier) Flow {
	return Flow{
		Name: "test",
		Steps: []Step{
			{
				State:      stepOne,
				Validate:   numberOnly,
				Key:        "first",
				Next:       stepTwo,
				NextPrompt: "enter second",
			},
			{
				State: stepTwo,
				Key:   "second",
				Finish: func(ctx context.Context, ev chat.Event, data map[string]any) error {
					*done = data
					sessions.Reset(ev.UserID)
					return rep.Reply(ctx, ev.UserID, chat.Reply{Text: "done"})
				},
			},
		},
	}
}

func TestInvalidInputSelfLoops(t *testing.T) {
	sessions := session.NewStore()
	rep := &fakeReplier{}
	eng := NewEngine(sessions, rep)
	var done map[string]any
	require.NoError(t, eng.Register(twoStepFlow(&done, sessions, rep)))

	sessions.SetState(10, stepOne)
	require.NoError(t, eng.Handle(context.Background(), chat.Event{UserID: 10, Kind: chat.KindText, Text: "bogus"}))

	assert.Equal(t, "must be 1", rep.last(t).Text)
	assert.Equal(t, stepOne, sessions.State(10))
	assert.Empty(t, sessions.Data(10), "rejected input must not touch the data bag")
}

func TestValidInputAdvances(t *testing.T) {
	sessions := session.NewStore()
	rep := &fakeReplier{}
	eng := NewEngine(sessions, rep)
	var done map[string]any
	require.NoError(t, eng.Register(twoStepFlow(&done, sessions, rep)))

	sessions.SetState(10, stepOne)
	require.NoError(t, eng.Handle(context.Background(), chat.Event{UserID: 10, Kind: chat.KindText, Text: "1"}))

	assert.Equal(t, "enter second", rep.last(t).Text)
	assert.Equal(t, stepTwo, sessions.State(10))
	assert.Equal(t, map[string]any{"first": 1}, sessions.Data(10))
}

func TestTerminalStepFinishes(t *testing.T) {
	sessions := session.NewStore()
	rep := &fakeReplier{}
	eng := NewEngine(sessions, rep)
	var done map[string]any
	require.NoError(t, eng.Register(twoStepFlow(&done, sessions, rep)))

	sessions.SetState(10, stepOne)
	require.NoError(t, eng.Handle(context.Background(), chat.Event{UserID: 10, Kind: chat.KindText, Text: "1"}))
	require.NoError(t, eng.Handle(context.Background(), chat.Event{UserID: 10, Kind: chat.KindText, Text: "anything"}))

	assert.Equal(t, "done", rep.last(t).Text)
	assert.Equal(t, map[string]any{"first": 1, "second": "anything"}, done)
	assert.Equal(t, session.StateIdle, sessions.State(10))
}

func TestRegisterRejectsDuplicateState(t *testing.T) {
	eng := NewEngine(session.NewStore(), &fakeReplier{})
	step := Step{State: stepOne, Next: stepTwo, NextPrompt: "x"}
	require.NoError(t, eng.Register(Flow{Name: "a", Steps: []Step{step}}))
	assert.Error(t, eng.Register(Flow{Name: "b", Steps: []Step{step}}))
}

func TestValidateErrorSurfacesWithoutAdvance(t *testing.T) {
	sessions := session.NewStore()
	rep := &fakeReplier{}
	eng := NewEngine(sessions, rep)

	boom := errors.New("storage unavailable")
	require.NoError(t, eng.Register(Flow{Name: "failing", Steps: []Step{{
		State: stepOne,
		Validate: func(context.Context, chat.Event) (any, string, error) {
			return nil, "", boom
		},
		Key:        "v",
		Next:       stepTwo,
		NextPrompt: "next",
	}}}))

	sessions.SetState(4, stepOne)
	err := eng.Handle(context.Background(), chat.Event{UserID: 4, Kind: chat.KindText, Text: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, stepOne, sessions.State(4))
	assert.Empty(t, sessions.Data(4))
	assert.Empty(t, rep.replies)
}

func TestHandleIgnoresUnknownState(t *testing.T) {
	sessions := session.NewStore()
	rep := &fakeReplier{}
	eng := NewEngine(sessions, rep)

	require.NoError(t, eng.Handle(context.Background(), chat.Event{UserID: 1, Kind: chat.KindText, Text: "hi"}))
	assert.Empty(t, rep.replies)
}
