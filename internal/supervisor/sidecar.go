package supervisor

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
)

type EventKind int

const (
	EventStdout EventKind = iota
	EventStderr
	EventTerminated
)

func (k EventKind) String() string {
	switch k {
	case EventStdout:
		return "stdout"
	case EventStderr:
		return "stderr"
	case EventTerminated:
		return "terminated"
	}
	return "unknown"
}

// Event is one observation of a managed sidecar. ExitCode and Err are set
// only on EventTerminated; ExitCode is -1 when a signal ended the process.
type Event struct {
	Kind     EventKind
	Line     string
	ExitCode int
	Err      error
}

// Child is a managed backend process whose streams the shell reads.
type Child struct {
	cmd  *exec.Cmd
	pid  int
	done chan struct{}
}

func (c *Child) Pid() int {
	return c.pid
}

// Done is closed once the process has been waited on.
func (c *Child) Done() <-chan struct{} {
	return c.done
}

// Kill terminates the sidecar and its process group. Killing one that
// already exited is not an error.
func (c *Child) Kill() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	if err := newSignaler().kill(c.pid); err == nil {
		return nil
	}
	if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// spawnSidecar starts argv with piped output. Lines arrive on the returned
// channel in per-stream order; EventTerminated is always the last event and
// the channel is closed after it.
func spawnSidecar(argv []string, dir string) (<-chan Event, *Child, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	ownGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	child := &Child{
		cmd:  cmd,
		pid:  cmd.Process.Pid,
		done: make(chan struct{}),
	}
	events := make(chan Event, 64)

	var readers sync.WaitGroup
	readers.Add(2)
	go pumpLines(stdout, EventStdout, events, &readers)
	go pumpLines(stderr, EventStderr, events, &readers)

	go func() {
		// Wait closes the pipes, so both readers must drain first.
		readers.Wait()
		waitErr := cmd.Wait()
		code := -1
		if cmd.ProcessState != nil {
			code = cmd.ProcessState.ExitCode()
		}
		close(child.done)
		events <- Event{Kind: EventTerminated, ExitCode: code, Err: waitErr}
		close(events)
	}()

	return events, child, nil
}

func pumpLines(r io.Reader, kind EventKind, events chan<- Event, wg *sync.WaitGroup) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		events <- Event{Kind: kind, Line: scanner.Text()}
	}
}
