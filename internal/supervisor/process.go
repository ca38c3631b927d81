// Package supervisor owns the lifecycle of the trading backend process: it
// decides whether a launch is needed, starts the backend detached or as a
// managed development sidecar, and tears it down on shutdown.
package supervisor

import "errors"

// Process is a backend the shell holds a live handle to.
type Process interface {
	Pid() int
	Kill() error
}

type Mode int

const (
	// ModeDetached is a fire-and-forget backend known only by PID.
	ModeDetached Mode = iota
	// ModeManaged is a sidecar whose output and exit the shell observes.
	ModeManaged
)

func (m Mode) String() string {
	switch m {
	case ModeDetached:
		return "detached"
	case ModeManaged:
		return "managed"
	}
	return "unknown"
}

// Handle identifies a launched backend. Child is set only for ModeManaged.
type Handle struct {
	PID   int
	Mode  Mode
	Child *Child
}

// Result is the status reported back to the UI for a start request.
type Result string

const (
	ResultAlreadyTracked  Result = "Backend already running (tracked)"
	ResultAlreadyExternal Result = "Backend already running (external)"
	ResultStarted         Result = "Backend started"
	ResultShuttingDown    Result = "Backend is already shutting down"
)

// ErrBackendNotFound means neither a bundled binary nor a development command
// could be resolved.
var ErrBackendNotFound = errors.New("backend not found (dev mode?)")
