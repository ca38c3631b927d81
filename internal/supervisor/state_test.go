package supervisor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_TrackedSlot(t *testing.T) {
	s := NewState()
	assert.Nil(t, s.Tracked())

	a := exitedChild(1)
	b := exitedChild(2)

	s.SetTracked(a)
	assert.Equal(t, Process(a), s.Tracked())

	assert.False(t, s.ClearTracked(b), "must not clear a different handle")
	assert.Equal(t, Process(a), s.Tracked())

	assert.True(t, s.ClearTracked(a))
	assert.Nil(t, s.Tracked())
	assert.False(t, s.ClearTracked(a))

	s.SetTracked(b)
	assert.Equal(t, Process(b), s.TakeTracked())
	assert.Nil(t, s.TakeTracked())
}

func TestState_BackendPID(t *testing.T) {
	s := NewState()
	assert.Equal(t, 0, s.BackendPID())

	s.SetBackendPID(321)
	assert.Equal(t, 321, s.BackendPID())
	assert.Equal(t, 321, s.TakeBackendPID())
	assert.Equal(t, 0, s.BackendPID())
	assert.Equal(t, 0, s.TakeBackendPID())
}

func TestState_ShutdownIsMonotonic(t *testing.T) {
	s := NewState()
	assert.False(t, s.ShuttingDown())

	var wg sync.WaitGroup
	var mu sync.Mutex
	flipped := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.BeginShutdown() {
				mu.Lock()
				flipped++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, flipped, "exactly one caller flips the flag")
	assert.True(t, s.ShuttingDown())
	assert.False(t, s.BeginShutdown())
	assert.True(t, s.ShuttingDown())
}
