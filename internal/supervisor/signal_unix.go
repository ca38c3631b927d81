//go:build !windows

package supervisor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type unixSignaler struct{}

func newSignaler() signaler {
	return unixSignaler{}
}

func (unixSignaler) terminate(pid int) error {
	return signalTree(pid, unix.SIGTERM)
}

func (unixSignaler) kill(pid int) error {
	return signalTree(pid, unix.SIGKILL)
}

// signalTree signals the process group led by pid (the backend is started as
// a session leader, and bundled backends fork a worker) and then pid itself.
// It fails only when neither delivery succeeded.
func signalTree(pid int, sig unix.Signal) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}

	groupErr := fmt.Errorf("process group %d not signalled", pid)
	if pid != unix.Getpgrp() {
		groupErr = unix.Kill(-pid, sig)
	}
	pidErr := unix.Kill(pid, sig)

	if groupErr != nil && pidErr != nil {
		return fmt.Errorf("failed to send %s to %d: %w", unix.SignalName(sig), pid, pidErr)
	}
	return nil
}
