//go:build windows

package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/windows"
)

type windowsSignaler struct{}

func newSignaler() signaler {
	return windowsSignaler{}
}

// terminate asks the process tree to close. Windows has no SIGTERM; taskkill
// without /F posts WM_CLOSE, which console backends may ignore, so the force
// step that follows is what usually ends them.
func (windowsSignaler) terminate(pid int) error {
	return taskkill(pid, false)
}

func (windowsSignaler) kill(pid int) error {
	err := taskkill(pid, true)
	if err == nil {
		return nil
	}
	p, findErr := os.FindProcess(pid)
	if findErr != nil {
		return err
	}
	if killErr := p.Kill(); killErr != nil {
		return fmt.Errorf("failed to kill %d: %w", pid, killErr)
	}
	return nil
}

func taskkill(pid int, force bool) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	args := []string{"/PID", strconv.Itoa(pid), "/T"}
	if force {
		args = append([]string{"/F"}, args...)
	}
	cmd := exec.Command("taskkill", args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("taskkill %v: %w", args, err)
	}
	return nil
}
