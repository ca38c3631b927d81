package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errBackendDown = errors.New("backend is not answering")

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the backend answers on its health port",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.shell.CheckBackendHealth() {
		return fmt.Errorf("%w on %s", errBackendDown, a.probe.Addr())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backend is up on %s\n", a.probe.Addr())
	return nil
}
