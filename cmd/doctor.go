package main

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/javanhut/xfactor-shell/internal/locator"
	"github.com/javanhut/xfactor-shell/internal/ui"
)

var doctorNotify bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the shell can find, reach and manage the backend",
	Long:  `Runs a series of self-checks against the current configuration and reports what the shell would do on start.`,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVarP(&doctorNotify, "notify", "n", false, "Also send a test desktop notification")
}

type check struct {
	name   string
	ok     bool
	detail string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, color.CyanString("XFactor Shell Doctor"))
	fmt.Fprintln(out, color.CyanString("===================="))
	fmt.Fprintln(out)

	checks := []check{
		platformCheck(),
		healthCheck(a),
		binaryCheck(a),
		devCommandCheck(a),
		pidFileCheck(a),
		notificationCheck(a),
	}
	printChecks(out, checks)

	if doctorNotify {
		a.shell.ShowNotification("XFactor Shell", "Desktop notifications are working")
		fmt.Fprintln(out, color.HiBlackString("Test notification sent."))
	}

	fmt.Fprintln(out)
	if a.probe.IsAlive() {
		color.New(color.FgGreen).Fprintln(out, "Start would reuse the running backend.")
	} else if _, ok := a.locator.Locate(); ok {
		color.New(color.FgGreen).Fprintln(out, "Start would launch the bundled backend.")
	} else {
		color.New(color.FgYellow).Fprintln(out, "Start would fall back to the development command.")
	}
	return nil
}

func printChecks(w io.Writer, checks []check) {
	for _, c := range checks {
		fmt.Fprintf(w, "%s %-14s %s\n", ui.Status(c.ok), c.name, color.HiBlackString(c.detail))
	}
}

func platformCheck() check {
	triple := locator.TripleFor(runtime.GOOS, runtime.GOARCH)
	if triple == "" {
		return check{"platform", false, fmt.Sprintf("%s/%s has no bundled backend build", runtime.GOOS, runtime.GOARCH)}
	}
	return check{"platform", true, triple}
}

func healthCheck(a *app) check {
	if a.probe.IsAlive() {
		return check{"health port", true, a.probe.Addr() + " is answering"}
	}
	return check{"health port", false, a.probe.Addr() + " is not answering"}
}

func binaryCheck(a *app) check {
	if path, ok := a.locator.Locate(); ok {
		return check{"backend binary", true, path}
	}
	return check{"backend binary", false,
		fmt.Sprintf("none of %d candidates exist (see 'xfactor-shell locate --all')", len(a.locator.Candidates()))}
}

func devCommandCheck(a *app) check {
	name := a.cfg.BackendName
	if len(a.cfg.DevCommand) > 0 {
		name = a.cfg.DevCommand[0]
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return check{"dev command", false, name + " is not on PATH"}
	}
	return check{"dev command", true, path}
}

func pidFileCheck(a *app) check {
	path := pidFilePath(a.cfg)
	if pid := a.sup.Adopt(); pid > 0 {
		return check{"pid file", true, fmt.Sprintf("backend %d recorded in %s", pid, path)}
	}
	return check{"pid file", true, "no running backend recorded in " + path}
}

func notificationCheck(a *app) check {
	if a.notifier.Enabled() {
		return check{"notifications", true, "desktop notifications enabled"}
	}
	return check{"notifications", false, "disabled or no notification helper found"}
}
