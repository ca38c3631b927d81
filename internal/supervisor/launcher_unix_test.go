//go:build !windows

package supervisor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func processGone(pid int) func() bool {
	return func() bool {
		return unix.Kill(pid, 0) != nil
	}
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("sidecar did not terminate in time")
			return out
		}
	}
}

func TestLaunch_DetachedInOwnSession(t *testing.T) {
	path := writeScript(t, "xfactor-backend", "exec sleep 30")
	l := NewLauncher("xfactor-backend", nil, "", zerolog.Nop())

	h, err := l.Launch(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = unix.Kill(h.PID, unix.SIGKILL) })

	assert.Equal(t, ModeDetached, h.Mode)
	assert.Nil(t, h.Child)
	assert.Greater(t, h.PID, 0)

	sid, err := unix.Getsid(h.PID)
	require.NoError(t, err)
	assert.Equal(t, h.PID, sid, "detached backend leads its own session")
}

func TestLaunch_MissingBinary(t *testing.T) {
	l := NewLauncher("xfactor-backend", nil, "", zerolog.Nop())

	_, err := l.Launch(filepath.Join(t.TempDir(), "xfactor-backend"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to spawn backend")
}

func TestLaunchDev_StreamsOutput(t *testing.T) {
	l := NewLauncher("xfactor-backend",
		[]string{"/bin/sh", "-c", "echo hello; echo oops 1>&2; exit 3"}, "", zerolog.Nop())

	h, events, err := l.LaunchDev()
	require.NoError(t, err)
	require.NotNil(t, h.Child)
	assert.Equal(t, ModeManaged, h.Mode)
	assert.Equal(t, h.PID, h.Child.Pid())

	got := collect(t, events)
	require.NotEmpty(t, got)

	last := got[len(got)-1]
	assert.Equal(t, EventTerminated, last.Kind)
	assert.Equal(t, 3, last.ExitCode)

	var stdout, stderr []string
	for _, ev := range got[:len(got)-1] {
		switch ev.Kind {
		case EventStdout:
			stdout = append(stdout, ev.Line)
		case EventStderr:
			stderr = append(stderr, ev.Line)
		}
	}
	assert.Equal(t, []string{"hello"}, stdout)
	assert.Equal(t, []string{"oops"}, stderr)

	select {
	case <-h.Child.Done():
	default:
		t.Fatal("Done should be closed after termination")
	}
	assert.NoError(t, h.Child.Kill(), "killing an exited sidecar is not an error")
}

func TestLaunchDev_UsesBackendOnPath(t *testing.T) {
	l := NewLauncher("xfactor-backend", nil, "", zerolog.Nop())
	l.lookPath = func(string) (string, error) { return "/bin/sh", nil }

	_, events, err := l.LaunchDev()
	require.NoError(t, err)

	got := collect(t, events)
	require.NotEmpty(t, got)
	assert.Equal(t, 0, got[len(got)-1].ExitCode)
}

func TestLaunchDev_NotFound(t *testing.T) {
	l := NewLauncher("xfactor-backend-does-not-exist", nil, "", zerolog.Nop())

	_, _, err := l.LaunchDev()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendNotFound)
}

func TestChild_KillRunningSidecar(t *testing.T) {
	l := NewLauncher("xfactor-backend", []string{"sleep", "30"}, "", zerolog.Nop())

	h, events, err := l.LaunchDev()
	require.NoError(t, err)

	require.NoError(t, h.Child.Kill())
	got := collect(t, events)
	require.NotEmpty(t, got)
	assert.Equal(t, -1, got[len(got)-1].ExitCode)
}

func TestChild_KillReachesForkedWorker(t *testing.T) {
	l := NewLauncher("xfactor-backend",
		[]string{"/bin/sh", "-c", "sleep 30 & echo ready; wait"}, "", zerolog.Nop())

	h, events, err := l.LaunchDev()
	require.NoError(t, err)
	t.Cleanup(func() { _ = unix.Kill(-h.PID, unix.SIGKILL) })

	pgid, err := unix.Getpgid(h.PID)
	require.NoError(t, err)
	assert.Equal(t, h.PID, pgid, "sidecar leads its own process group")

	select {
	case ev := <-events:
		require.Equal(t, EventStdout, ev.Kind)
		require.Equal(t, "ready", ev.Line)
	case <-time.After(5 * time.Second):
		t.Fatal("sidecar never reported ready")
	}

	require.NoError(t, h.Child.Kill())

	// The background sleep shares stdout; Done only closes once it is gone too.
	select {
	case <-h.Child.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Done not closed after killing a sidecar with a forked worker")
	}
	got := collect(t, events)
	require.NotEmpty(t, got)
	assert.Equal(t, EventTerminated, got[len(got)-1].Kind)
}

func TestStop_KillsRealDetachedBackend(t *testing.T) {
	path := writeScript(t, "xfactor-backend", "trap '' TERM\nwhile true; do sleep 1; done")

	sup := New(Options{
		BackendName: "xfactor-backend",
		GracePeriod: 50 * time.Millisecond,
		Probe:       &fakeProbe{},
		Locator:     &fakeLocator{path: path},
		Log:         zerolog.Nop(),
	})
	// Keep the sweep away from unrelated processes on the test host.
	sup.reaper.find = &fakeFinder{}

	res, err := sup.Start()
	require.NoError(t, err)
	require.Equal(t, ResultStarted, res)

	pid := sup.State().BackendPID()
	require.Greater(t, pid, 0)
	t.Cleanup(func() { _ = unix.Kill(-pid, unix.SIGKILL) })

	sup.Stop()

	assert.Eventually(t, processGone(pid), 5*time.Second, 20*time.Millisecond,
		"backend ignoring SIGTERM must still die to the forced kill")
	assert.Equal(t, 0, sup.State().BackendPID())
}

func TestProcessAlive(t *testing.T) {
	assert.True(t, processAlive(os.Getpid()))
	assert.False(t, processAlive(0))
	assert.False(t, processAlive(os.Getpid(), "definitely-not-this-binary"))
}
