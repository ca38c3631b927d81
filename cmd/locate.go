package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javanhut/xfactor-shell/internal/ui"
)

var locateAll bool

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show where the backend binary would be launched from",
	Long: `Prints the backend binary the shell would launch. With --all every candidate
path is listed in search order, marked by whether it exists.`,
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
	locateCmd.Flags().BoolVarP(&locateAll, "all", "a", false, "List every candidate path")
}

func runLocate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	out := cmd.OutOrStdout()

	if locateAll {
		for _, c := range a.locator.Candidates() {
			fmt.Fprintf(out, "%s %s\n", ui.Status(a.locator.Exists(c.Path())), c.Path())
		}
		return nil
	}

	path, ok := a.locator.Locate()
	if !ok {
		fmt.Fprintln(out, "No backend binary found; start would fall back to the development command")
		return nil
	}
	fmt.Fprintln(out, path)
	return nil
}
