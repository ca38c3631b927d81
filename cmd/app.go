package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/javanhut/xfactor-shell/internal/health"
	"github.com/javanhut/xfactor-shell/internal/locator"
	"github.com/javanhut/xfactor-shell/internal/logger"
	"github.com/javanhut/xfactor-shell/internal/notify"
	"github.com/javanhut/xfactor-shell/internal/shell"
	"github.com/javanhut/xfactor-shell/internal/supervisor"
	"github.com/javanhut/xfactor-shell/pkg/config"
)

// app is everything a command needs, built once from the loaded config.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	probe    *health.Probe
	locator  *locator.Locator
	sup      *supervisor.Supervisor
	notifier *notify.Notifier
	shell    *shell.Shell
	logFile  *lumberjack.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = zerolog.DebugLevel
	}
	var (
		log     zerolog.Logger
		logFile *lumberjack.Logger
	)
	if path := logFilePath(cfg); path != "" {
		logFile = logger.RotatingFile(path, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
		log = logger.NewTee(logFile, level)
	} else {
		log = logger.NewConsole(level)
	}
	log = logger.WithRunID(log)

	probe := health.New(cfg.HealthHost, cfg.HealthPort,
		config.ParseDuration(cfg.ProbeTimeout, health.MaxTimeout))

	loc := locator.New(locator.Options{
		BackendName: cfg.BackendName,
		AppID:       cfg.AppID,
		ResourceDir: cfg.ResourceDir,
		DataDir:     cfg.DataDir,
		Log:         logger.Component(log, "locator"),
	})

	sup := supervisor.New(supervisor.Options{
		BackendName: cfg.BackendName,
		HealthPort:  cfg.HealthPort,
		DevCommand:  cfg.DevCommand,
		DevDir:      devDir(),
		GracePeriod: config.ParseDuration(cfg.GracePeriod, supervisor.DefaultGracePeriod),
		PIDFile:     pidFilePath(cfg),
		Probe:       probe,
		Locator:     loc,
		Log:         logger.Component(log, "supervisor"),
	})

	notifier := notify.New(cfg.Notifications, logger.Component(log, "notify"))

	sh := shell.New(sup, probe, notifier, shell.Options{
		Version:      Version,
		StartupDelay: config.ParseDuration(cfg.StartupDelay, shell.DefaultStartupDelay),
		Log:          logger.Component(log, "shell"),
	})

	return &app{
		cfg:      cfg,
		log:      log,
		probe:    probe,
		locator:  loc,
		sup:      sup,
		notifier: notifier,
		shell:    sh,
		logFile:  logFile,
	}, nil
}

// Close flushes and closes the log file, if any.
func (a *app) Close() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

func logFilePath(cfg *config.Config) string {
	if logFileFlag != "" {
		return logFileFlag
	}
	return cfg.LogFile
}

// pidFilePath resolves the PID file: the configured path, else the user data
// dir, else the temp dir.
func pidFilePath(cfg *config.Config) string {
	if cfg.PIDFile != "" {
		return cfg.PIDFile
	}
	name := cfg.BackendName + ".pid"
	dir := cfg.DataDir
	if dir == "" {
		d, err := locator.UserDataDir(runtime.GOOS, cfg.AppID)
		if err != nil {
			return filepath.Join(os.TempDir(), name)
		}
		dir = d
	}
	return filepath.Join(dir, name)
}

// devDir is where the development command runs: the working directory the
// shell was started from.
func devDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
