// Package monitor watches the backend's health port while the shell runs and
// reports when the backend comes up or goes away.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultPollInterval = 5 * time.Second

type Prober interface {
	IsAlive() bool
}

// Notifier receives health transitions. The initial state is never reported.
type Notifier interface {
	NotifyBackendUp(addr string)
	NotifyBackendDown(addr string)
}

type Options struct {
	PollInterval time.Duration
	// Addr is only used in log lines and notifications.
	Addr string
	// OnChange, if set, is called on every transition after the notifier.
	OnChange func(up bool)
}

type Monitor struct {
	probe    Prober
	options  Options
	notifier Notifier
	log      zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu      sync.Mutex
	up      bool
	started bool
}

func New(probe Prober, notifier Notifier, options Options, log zerolog.Logger) *Monitor {
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		probe:    probe,
		options:  options,
		notifier: notifier,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start records the current state and begins polling. It fails if called twice.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("monitor already started")
	}
	m.started = true
	m.up = m.probe.IsAlive()
	up := m.up
	m.mu.Unlock()

	m.log.Info().
		Str("addr", m.options.Addr).
		Dur("interval", m.options.PollInterval).
		Bool("up", up).
		Msg("watching backend health")

	m.wg.Add(1)
	go m.monitorLoop()
	return nil
}

func (m *Monitor) Stop() error {
	m.cancel()
	m.wg.Wait()
	return nil
}

// Up reports the last observed state.
func (m *Monitor) Up() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.up
}

func (m *Monitor) monitorLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.options.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.check()
		}
	}
}

func (m *Monitor) check() {
	up := m.probe.IsAlive()

	m.mu.Lock()
	changed := up != m.up
	m.up = up
	m.mu.Unlock()

	if !changed {
		m.log.Debug().Bool("up", up).Msg("backend health unchanged")
		return
	}

	if up {
		m.log.Info().Str("addr", m.options.Addr).Msg("backend is up")
		if m.notifier != nil {
			m.notifier.NotifyBackendUp(m.options.Addr)
		}
	} else {
		m.log.Warn().Str("addr", m.options.Addr).Msg("backend went down")
		if m.notifier != nil {
			m.notifier.NotifyBackendDown(m.options.Addr)
		}
	}
	if m.options.OnChange != nil {
		m.options.OnChange(up)
	}
}
