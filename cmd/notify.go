package main

import (
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify TITLE BODY",
	Short: "Show a desktop notification",
	Args:  cobra.ExactArgs(2),
	RunE:  runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	a.shell.ShowNotification(args[0], args[1])
	return nil
}
