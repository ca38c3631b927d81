package supervisor

import (
	"sync"
	"sync/atomic"
)

// State is the shell's view of the backend for one application run.
//
// The tracked slot is guarded by mu. The backend PID and the shutdown flag are
// independent atomics; neither needs to agree with the slot.
type State struct {
	mu      sync.Mutex
	tracked Process

	backendPID   atomic.Int64
	shuttingDown atomic.Bool
}

func NewState() *State {
	return &State{}
}

func (s *State) Tracked() Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracked
}

func (s *State) SetTracked(p Process) {
	s.mu.Lock()
	s.tracked = p
	s.mu.Unlock()
}

// TakeTracked empties the slot and returns what it held.
func (s *State) TakeTracked() Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.tracked
	s.tracked = nil
	return p
}

// ClearTracked empties the slot only if it still holds p.
func (s *State) ClearTracked(p Process) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracked == nil || s.tracked != p {
		return false
	}
	s.tracked = nil
	return true
}

func (s *State) BackendPID() int {
	return int(s.backendPID.Load())
}

func (s *State) SetBackendPID(pid int) {
	s.backendPID.Store(int64(pid))
}

// TakeBackendPID returns the recorded PID and resets it to zero.
func (s *State) TakeBackendPID() int {
	return int(s.backendPID.Swap(0))
}

func (s *State) ShuttingDown() bool {
	return s.shuttingDown.Load()
}

// BeginShutdown sets the shutdown flag. It reports true only for the call
// that flipped it.
func (s *State) BeginShutdown() bool {
	return s.shuttingDown.CompareAndSwap(false, true)
}
