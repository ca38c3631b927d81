package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javanhut/xfactor-shell/internal/logger"
	"github.com/javanhut/xfactor-shell/internal/monitor"
	"github.com/javanhut/xfactor-shell/internal/shell"
	"github.com/javanhut/xfactor-shell/pkg/config"
)

const windowCloseEvent = "window-close"

var (
	noWatch   bool
	menuStdin bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the backend and supervise it until the shell quits",
	Long: `Runs the shell's supervision loop in the foreground. After a short startup
delay the backend is started (or an existing one reused) and its health port
is watched. Ctrl+C, or a quit event, stops the backend gracefully.

With --menu-stdin, menu event ids are read one per line from stdin:
kill-switch, tray-quit, quit and window-close.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not watch the backend health port")
	runCmd.Flags().BoolVar(&menuStdin, "menu-stdin", false, "Read menu event ids from stdin")
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		if _, err := a.shell.AutoStart(ctx); err != nil && ctx.Err() == nil {
			a.log.Warn().Msg("backend did not start, trading is unavailable until it does")
		}
	}()

	if !noWatch {
		w := monitor.New(a.probe, a.notifier, monitor.Options{
			PollInterval: config.ParseDuration(a.cfg.WatchInterval, monitor.DefaultPollInterval),
			Addr:         a.probe.Addr(),
		}, logger.Component(a.log, "watcher"))
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to start health watcher: %w", err)
		}
		defer w.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	quit := make(chan string, 1)
	if menuStdin {
		go readMenuEvents(cmd.InOrStdin(), a.shell, quit)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Supervising backend on %s (Ctrl+C to quit)\n", a.probe.Addr())

	select {
	case <-sigChan:
		fmt.Fprintln(cmd.OutOrStdout(), "\nStopping backend...")
		cancel()
		a.shell.OnQuit()
	case id := <-quit:
		cancel()
		a.log.Debug().Str("event", id).Msg("menu requested exit")
	}

	fmt.Fprintln(cmd.OutOrStdout(), shell.StoppedMessage)
	return nil
}

// readMenuEvents dispatches ids from r until an event ends the shell or r is
// exhausted. Exiting events are reported on quit after their teardown ran.
func readMenuEvents(r io.Reader, sh *shell.Shell, quit chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		if dispatchMenuEvent(sh, id) {
			quit <- id
			return
		}
	}
}

// dispatchMenuEvent routes one id and reports whether the shell should exit.
func dispatchMenuEvent(sh *shell.Shell, id string) bool {
	switch id {
	case windowCloseEvent:
		sh.OnWindowClose()
		return true
	case shell.MenuQuit, shell.MenuTrayQuit:
		sh.HandleMenuEvent(id)
		return true
	default:
		sh.HandleMenuEvent(id)
		return false
	}
}
