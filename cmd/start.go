package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the trading backend",
	Long: `Starts the backend unless one is already running. A bundled binary is launched
detached and keeps running after this command exits. A development sidecar
is tied to this process, so start stays in the foreground until interrupted.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	status, err := a.shell.StartBackend()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), status)

	if !a.sup.Tracking() {
		if pid := a.sup.State().BackendPID(); pid > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Backend PID: %d\n", pid)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Development backend attached, press Ctrl+C to stop it...")
	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	<-sigChan

	fmt.Fprintln(cmd.OutOrStdout(), a.shell.StopBackend())
	return nil
}
