package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javanhut/xfactor-shell/internal/shell"
)

var cleanupNotify bool

var cleanupCmd = &cobra.Command{
	Use:     "cleanup",
	Aliases: []string{"kill-switch"},
	Short:   "Forcibly kill every backend process (kill switch)",
	Long: `Emergency teardown. Runs the same kill sequence as stop and then sweeps twice
for any process named like the backend or holding its port, including ones
this shell did not start.`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().BoolVarP(&cleanupNotify, "notify", "n", false, "Send a desktop notification when done")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.sup.Adopt()
	if cleanupNotify {
		a.shell.OnKillSwitch()
		fmt.Fprintln(cmd.OutOrStdout(), shell.CleanedMessage)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), a.shell.ForceCleanup())
	return nil
}
