package supervisor

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Prober answers whether a backend is already reachable.
type Prober interface {
	IsAlive() bool
}

// BinaryLocator resolves the bundled backend executable.
type BinaryLocator interface {
	Locate() (string, bool)
}

type launcher interface {
	Launch(path string) (Handle, error)
	LaunchDev() (Handle, <-chan Event, error)
}

type Options struct {
	BackendName string
	HealthPort  int
	DevCommand  []string
	DevDir      string
	GracePeriod time.Duration
	// PIDFile is optional; when empty the backend PID lives only in memory.
	PIDFile string

	Probe   Prober
	Locator BinaryLocator
	Log     zerolog.Logger
}

// Supervisor combines the state, launcher and reaper behind the operations
// the shell exposes. Start and the teardown paths serialize on ops.
type Supervisor struct {
	state    *State
	probe    Prober
	locator  BinaryLocator
	launcher launcher
	reaper   *Reaper
	pidFile  *PIDFile
	alive    func(pid int, needles ...string) bool
	names    []string
	log      zerolog.Logger

	ops sync.Mutex
}

func New(opts Options) *Supervisor {
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}

	state := NewState()
	s := &Supervisor{
		state:    state,
		probe:    opts.Probe,
		locator:  opts.Locator,
		launcher: NewLauncher(opts.BackendName, opts.DevCommand, opts.DevDir, opts.Log),
		reaper: newReaper(state, newSignaler(),
			newProcFinder(opts.BackendName, opts.HealthPort, opts.Log),
			opts.GracePeriod, opts.Log),
		alive: processAlive,
		names: []string{opts.BackendName},
		log:   opts.Log,
	}
	if opts.PIDFile != "" {
		s.pidFile = NewPIDFile(opts.PIDFile)
	}
	return s
}

func (s *Supervisor) State() *State {
	return s.state
}

// Tracking reports whether a managed sidecar is held in the tracked slot.
func (s *Supervisor) Tracking() bool {
	return s.state.Tracked() != nil
}

// Start launches the backend unless one is already there. A running backend,
// tracked or found by the probe, is reused and never killed.
func (s *Supervisor) Start() (Result, error) {
	if s.state.ShuttingDown() {
		return ResultShuttingDown, nil
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	// A shutdown may have begun while we waited for the lock.
	if s.state.ShuttingDown() {
		return ResultShuttingDown, nil
	}
	if s.state.Tracked() != nil {
		return ResultAlreadyTracked, nil
	}
	if pid := s.state.BackendPID(); pid > 0 && s.alive(pid, s.names...) {
		s.log.Debug().Int("pid", pid).Msg("detached backend still running")
		return ResultAlreadyTracked, nil
	}
	if s.probe.IsAlive() {
		s.log.Info().Msg("backend already answering on the health port, reusing it")
		return ResultAlreadyExternal, nil
	}

	if path, ok := s.locator.Locate(); ok {
		s.log.Info().Str("path", path).Msg("found backend binary")

		h, err := s.launcher.Launch(path)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to spawn backend")
			return "", err
		}

		s.state.SetBackendPID(h.PID)
		s.recordPID(h.PID, path)
		s.log.Info().Int("pid", h.PID).Str("mode", h.Mode.String()).Msg("backend started")
		return ResultStarted, nil
	}

	s.log.Warn().Msg("backend binary not found, falling back to development launch")
	h, events, err := s.launcher.LaunchDev()
	if err != nil {
		s.log.Warn().Err(err).Msg("development launch failed, trading is unavailable")
		return "", err
	}

	s.state.SetTracked(h.Child)
	go s.forward(h.Child, events)
	s.log.Info().Int("pid", h.PID).Str("mode", h.Mode.String()).Msg("backend sidecar started")
	return ResultStarted, nil
}

// forward relays sidecar output into the log until the sidecar terminates.
func (s *Supervisor) forward(child *Child, events <-chan Event) {
	backend := s.log.With().Str("source", "backend").Int("pid", child.Pid()).Logger()
	for ev := range events {
		switch ev.Kind {
		case EventStdout:
			backend.Info().Msg(ev.Line)
		case EventStderr:
			backend.Warn().Msg(ev.Line)
		case EventTerminated:
			backend.Info().Int("exit_code", ev.ExitCode).Msg("process terminated")
			s.state.ClearTracked(child)
			return
		}
	}
}

// Stop performs the graceful shutdown. Calling it with nothing running is a
// no-op apart from the straggler sweep.
func (s *Supervisor) Stop() {
	s.state.BeginShutdown()

	s.ops.Lock()
	defer s.ops.Unlock()

	s.reaper.GracefulShutdown()
	s.dropPIDFile()
}

// ForceCleanup is the emergency teardown behind the kill switch.
func (s *Supervisor) ForceCleanup() {
	s.state.BeginShutdown()

	s.ops.Lock()
	defer s.ops.Unlock()

	s.reaper.ForceCleanup()
	s.dropPIDFile()
}

func (s *Supervisor) SweepStragglers() int {
	return s.reaper.SweepStragglers()
}

// Adopt loads a backend PID recorded by an earlier shell invocation so this
// one can tear it down. It returns the adopted PID or 0.
func (s *Supervisor) Adopt() int {
	if s.pidFile == nil {
		return 0
	}
	rec, err := s.pidFile.Read()
	if err != nil {
		return 0
	}

	needles := append([]string(nil), s.names...)
	if rec.Binary != "" {
		needles = append(needles, filepath.Base(rec.Binary))
	}
	if !s.alive(rec.PID, needles...) {
		s.log.Debug().Int("pid", rec.PID).Msg("removing stale PID file")
		s.dropPIDFile()
		return 0
	}

	if s.state.BackendPID() == 0 {
		s.state.SetBackendPID(rec.PID)
	}
	return rec.PID
}

func (s *Supervisor) recordPID(pid int, binary string) {
	if s.pidFile == nil {
		return
	}
	if err := s.pidFile.Write(pid, binary); err != nil {
		s.log.Warn().Err(err).Str("path", s.pidFile.Path()).Msg("failed to write PID file")
	}
}

func (s *Supervisor) dropPIDFile() {
	if s.pidFile == nil {
		return
	}
	if err := s.pidFile.Remove(); err != nil {
		s.log.Debug().Err(err).Msg("failed to remove PID file")
	}
}
