// Package shell is the command surface the desktop UI calls into. It turns
// supervisor results into the strings the UI displays and routes window,
// quit and kill-switch events to the matching teardown.
package shell

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/javanhut/xfactor-shell/internal/supervisor"
)

const (
	StoppedMessage = "Backend stopped and cleaned up"
	CleanedMessage = "Cleanup completed"

	DefaultStartupDelay = 500 * time.Millisecond
)

// Menu event ids emitted by the application and tray menus.
const (
	MenuKillSwitch = "kill-switch"
	MenuTrayQuit   = "tray-quit"
	MenuQuit       = "quit"
)

type Supervisor interface {
	Start() (supervisor.Result, error)
	Stop()
	ForceCleanup()
}

type Prober interface {
	IsAlive() bool
}

type Notifier interface {
	Show(title, body string)
	NotifyBackendStarted(status string)
	NotifyBackendStopped()
	NotifyKillSwitch()
}

type SystemInfo struct {
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	Version string `json:"version"`
}

type Options struct {
	Version      string
	StartupDelay time.Duration
	Log          zerolog.Logger
}

type Shell struct {
	sup          Supervisor
	probe        Prober
	notifier     Notifier
	version      string
	startupDelay time.Duration
	log          zerolog.Logger
}

// New builds the command surface. notifier may be nil.
func New(sup Supervisor, probe Prober, notifier Notifier, opts Options) *Shell {
	if opts.StartupDelay < 0 {
		opts.StartupDelay = DefaultStartupDelay
	}
	return &Shell{
		sup:          sup,
		probe:        probe,
		notifier:     notifier,
		version:      opts.Version,
		startupDelay: opts.StartupDelay,
		log:          opts.Log,
	}
}

func (s *Shell) StartBackend() (string, error) {
	res, err := s.sup.Start()
	if err != nil {
		return "", fmt.Errorf("failed to start backend: %w", err)
	}
	return string(res), nil
}

func (s *Shell) StopBackend() string {
	s.sup.Stop()
	if s.notifier != nil {
		s.notifier.NotifyBackendStopped()
	}
	return StoppedMessage
}

func (s *Shell) ForceCleanup() string {
	s.sup.ForceCleanup()
	return CleanedMessage
}

func (s *Shell) CheckBackendHealth() bool {
	return s.probe.IsAlive()
}

func (s *Shell) GetSystemInfo() SystemInfo {
	return SystemInfo{
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Version: s.version,
	}
}

func (s *Shell) ShowNotification(title, body string) {
	if s.notifier == nil {
		s.log.Info().Str("title", title).Msg(body)
		return
	}
	s.notifier.Show(title, body)
}

// AutoStart waits for the startup delay so the UI can settle, then starts
// the backend. It returns early without starting if ctx is cancelled.
func (s *Shell) AutoStart(ctx context.Context) (string, error) {
	if s.startupDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.startupDelay):
		}
	}

	status, err := s.StartBackend()
	if err != nil {
		s.log.Error().Err(err).Msg("automatic backend start failed")
		return "", err
	}
	s.log.Info().Str("status", status).Msg("automatic backend start")
	if s.notifier != nil {
		s.notifier.NotifyBackendStarted(status)
	}
	return status, nil
}

func (s *Shell) OnWindowClose() {
	s.log.Info().Msg("window closing, stopping backend")
	s.StopBackend()
}

func (s *Shell) OnQuit() {
	s.log.Info().Msg("quit requested, stopping backend")
	s.StopBackend()
}

func (s *Shell) OnKillSwitch() {
	s.log.Warn().Msg("kill switch activated")
	s.sup.ForceCleanup()
	if s.notifier != nil {
		s.notifier.NotifyKillSwitch()
	}
}

// HandleMenuEvent dispatches a menu id. It reports whether the id was known.
func (s *Shell) HandleMenuEvent(id string) bool {
	switch id {
	case MenuKillSwitch:
		s.OnKillSwitch()
	case MenuTrayQuit, MenuQuit:
		s.OnQuit()
	default:
		s.log.Debug().Str("id", id).Msg("ignoring menu event")
		return false
	}
	return true
}
