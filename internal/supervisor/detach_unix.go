//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"
)

// detach starts the backend in a new session so it leaves the shell's process
// group and controlling terminal; it survives the shell and ignores signals
// aimed at the shell's group.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// ownGroup puts a sidecar in its own process group so a kill reaches any
// worker it forks, which would otherwise hold the output pipes open.
func ownGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
