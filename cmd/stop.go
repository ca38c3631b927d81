package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the trading backend gracefully",
	Long: `Stops the backend recorded in the PID file: a polite termination, a short
grace period, then a forced kill. Any remaining backend processes are swept.
Stopping when nothing is running is not an error.`,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if pid := a.sup.Adopt(); pid > 0 {
		a.log.Info().Int("pid", pid).Msg("stopping recorded backend")
	}
	fmt.Fprintln(cmd.OutOrStdout(), a.shell.StopBackend())
	return nil
}
