package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javanhut/xfactor-shell/internal/locator"
	"github.com/javanhut/xfactor-shell/internal/ui"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show system information reported to the UI",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Print as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	info := a.shell.GetSystemInfo()
	if infoJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	triple := locator.TripleFor(info.OS, info.Arch)
	if triple == "" {
		triple = "unsupported"
	}
	ui.NewWriterUI(cmd.OutOrStdout()).DrawReport("XFactor Shell", []ui.Field{
		{Label: "OS", Value: info.OS},
		{Label: "Arch", Value: info.Arch},
		{Label: "Target", Value: triple},
		{Label: "Version", Value: info.Version},
		{Label: "Backend", Value: fmt.Sprintf("%s on %s", a.cfg.BackendName, a.probe.Addr())},
	})
	return nil
}
