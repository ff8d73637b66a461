package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, hits *[]string) HandlerFunc {
	return func(ctx context.Context, ev Event) error {
		*hits = append(*hits, name)
		return nil
	}
}

func TestFirstMatchWins(t *testing.T) {
	var hits []string
	d := NewDispatcher([]Rule{
		Command("/start", record("start", &hits)),
		Text("Buy", "buy", record("buy", &hits)),
		{Name: "catchall", Match: func(Event) bool { return true }, Handle: record("catchall", &hits)},
	})

	require.NoError(t, d.Dispatch(context.Background(), Event{UserID: 1, Kind: KindText, Text: "Buy"}))
	require.NoError(t, d.Dispatch(context.Background(), Event{UserID: 1, Kind: KindCommand, Text: "/start"}))
	require.NoError(t, d.Dispatch(context.Background(), Event{UserID: 1, Kind: KindText, Text: "whatever"}))

	assert.Equal(t, []string{"buy", "start", "catchall"}, hits)
}

func TestExactlyOneHandlerFires(t *testing.T) {
	var hits []string
	// Both rules match the same event; only the first may fire.
	d := NewDispatcher([]Rule{
		Text("Buy", "first", record("first", &hits)),
		Text("Buy", "second", record("second", &hits)),
	})

	require.NoError(t, d.Dispatch(context.Background(), Event{UserID: 1, Kind: KindText, Text: "Buy"}))
	assert.Equal(t, []string{"first"}, hits)
}

func TestCallbackPrefixMatching(t *testing.T) {
	var got string
	d := NewDispatcher([]Rule{
		CallbackPrefix("product_buying", func(ctx context.Context, ev Event) error {
			got = ev.Argument("product_buying")
			return nil
		}),
	})

	ev := Event{UserID: 5, Kind: KindCallback, Payload: "product_buying Oatmeal"}
	require.NoError(t, d.Dispatch(context.Background(), ev))
	assert.Equal(t, "Oatmeal", got)

	// A bare action with no argument does not match.
	got = ""
	require.NoError(t, d.Dispatch(context.Background(), Event{UserID: 5, Kind: KindCallback, Payload: "product_buying"}))
	assert.Empty(t, got)
}

func TestUnmatchedEventIsDropped(t *testing.T) {
	d := NewDispatcher([]Rule{
		Command("/start", func(context.Context, Event) error { return nil }),
	})
	assert.NoError(t, d.Dispatch(context.Background(), Event{UserID: 2, Kind: KindCallback, Payload: "nope"}))
}

func TestSameUserEventsAreSerialized(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		overlap bool
	)
	enter := func() {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		mu.Unlock()
	}
	leave := func() {
		mu.Lock()
		active--
		mu.Unlock()
	}

	d := NewDispatcher([]Rule{{
		Name:  "slow",
		Match: func(Event) bool { return true },
		Handle: func(ctx context.Context, ev Event) error {
			enter()
			defer leave()
			time.Sleep(time.Millisecond)
			return nil
		},
	}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), Event{UserID: 99, Kind: KindText, Text: "x"})
		}()
	}
	wg.Wait()

	assert.False(t, overlap, "handlers for one user must not run concurrently")
}
