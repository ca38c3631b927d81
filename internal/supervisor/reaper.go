package supervisor

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultGracePeriod is how long a polite termination gets before the
// forceful one is sent.
const DefaultGracePeriod = 500 * time.Millisecond

// Reaper tears the backend down. The sequence is the same on every platform:
// kill the tracked handle, terminate the recorded PID, wait the grace period,
// force-kill it, then sweep for stragglers. Only the signalling differs.
type Reaper struct {
	state *State
	sig   signaler
	find  finder
	grace time.Duration
	sleep func(time.Duration)
	log   zerolog.Logger
}

func newReaper(state *State, sig signaler, find finder, grace time.Duration, log zerolog.Logger) *Reaper {
	return &Reaper{
		state: state,
		sig:   sig,
		find:  find,
		grace: grace,
		sleep: time.Sleep,
		log:   log,
	}
}

// GracefulShutdown stops the backend and marks the state as shutting down.
func (r *Reaper) GracefulShutdown() {
	r.killSequence()
	r.SweepStragglers()
}

// ForceCleanup is the kill-switch path: the same sequence, with the sweep run
// a second time to catch workers that outlived their parent.
func (r *Reaper) ForceCleanup() {
	r.log.Warn().Msg("force cleanup requested")
	r.killSequence()
	r.SweepStragglers()
	r.SweepStragglers()
}

func (r *Reaper) killSequence() {
	if r.state.BeginShutdown() {
		r.log.Info().Msg("shutdown started, new launches are blocked")
	}

	if p := r.state.TakeTracked(); p != nil {
		if err := p.Kill(); err != nil {
			r.log.Warn().Err(err).Int("pid", p.Pid()).Msg("failed to kill tracked backend")
		} else {
			r.log.Info().Int("pid", p.Pid()).Msg("tracked backend killed")
		}
	}

	pid := r.state.TakeBackendPID()
	if pid <= 0 {
		return
	}

	if err := r.sig.terminate(pid); err != nil {
		r.log.Debug().Err(err).Int("pid", pid).Msg("terminate signal not delivered")
	}
	// No exit check between the two signals: the force step is sent regardless.
	r.sleep(r.grace)
	if err := r.sig.kill(pid); err != nil {
		r.log.Debug().Err(err).Int("pid", pid).Msg("kill signal not delivered, backend likely exited")
	} else {
		r.log.Info().Int("pid", pid).Msg("backend terminated")
	}
}

// SweepStragglers force-kills every process that looks like a backend and
// returns how many were signalled.
func (r *Reaper) SweepStragglers() int {
	killed := 0
	for _, pid := range r.find.find() {
		if err := r.sig.kill(pid); err != nil {
			r.log.Debug().Err(err).Int("pid", pid).Msg("straggler already gone")
			continue
		}
		killed++
		r.log.Info().Int("pid", pid).Msg("killed straggler backend")
	}
	return killed
}
