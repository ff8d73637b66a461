package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCreatesIdleSession(t *testing.T) {
	s := NewStore()

	sess := s.Get(42)
	assert.Equal(t, StateIdle, sess.State)
	assert.Empty(t, sess.Data)
	assert.False(t, s.InProgress(42))
}

func TestStateTransitionsAndData(t *testing.T) {
	s := NewStore()

	s.SetState(1, State("calorie:await_age"))
	s.MergeData(1, "age", 30.0)

	assert.Equal(t, State("calorie:await_age"), s.State(1))
	assert.True(t, s.InProgress(1))
	assert.Equal(t, map[string]any{"age": 30.0}, s.Data(1))

	// Other users are unaffected.
	assert.Equal(t, StateIdle, s.State(2))
	assert.Empty(t, s.Data(2))
}

func TestResetClearsStateAndData(t *testing.T) {
	s := NewStore()
	s.SetState(7, State("register:await_email"))
	s.MergeData(7, "username", "John")

	s.Reset(7)

	assert.Equal(t, StateIdle, s.State(7))
	assert.Empty(t, s.Data(7))
}

func TestDataSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.MergeData(3, "k", "v")

	snap := s.Data(3)
	snap["k"] = "mutated"

	assert.Equal(t, map[string]any{"k": "v"}, s.Data(3))
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.SetState(id, State("x"))
			s.MergeData(id, "n", id)
			_ = s.Get(id)
			s.Reset(id)
		}(int64(i % 5))
	}
	wg.Wait()
}
