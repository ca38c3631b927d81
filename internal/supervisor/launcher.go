package supervisor

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Launcher starts backend processes. Bundled binaries run detached; the
// development fallback runs as a managed sidecar so its output stays visible.
type Launcher struct {
	backendName string
	devCommand  []string
	devDir      string
	lookPath    func(string) (string, error)
	log         zerolog.Logger
}

func NewLauncher(backendName string, devCommand []string, devDir string, log zerolog.Logger) *Launcher {
	return &Launcher{
		backendName: backendName,
		devCommand:  devCommand,
		devDir:      devDir,
		lookPath:    exec.LookPath,
		log:         log,
	}
}

// Launch starts the binary at path in its own session/process group with
// all standard streams on the null device. If the detached start fails the
// launcher retries once as a plain child. The backend owns its own logging.
func (l *Launcher) Launch(path string) (Handle, error) {
	cmd := l.detachedCommand(path)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		l.log.Debug().Err(err).Str("path", path).Msg("detached start failed, retrying without process group")

		cmd = l.detachedCommand(path)
		if err := cmd.Start(); err != nil {
			return Handle{}, fmt.Errorf("failed to spawn backend %s: %w", path, err)
		}
	}

	pid := cmd.Process.Pid
	// Reap in the background so an exited backend does not linger as a zombie.
	go func() {
		_ = cmd.Wait()
	}()

	return Handle{PID: pid, Mode: ModeDetached}, nil
}

func (l *Launcher) detachedCommand(path string) *exec.Cmd {
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	// Stdin, Stdout and Stderr stay nil: os/exec wires them to the null device.
	return cmd
}

// LaunchDev spawns the backend through the development command. The returned
// channel carries its output and termination.
func (l *Launcher) LaunchDev() (Handle, <-chan Event, error) {
	argv, err := l.devArgv()
	if err != nil {
		return Handle{}, nil, err
	}

	events, child, err := spawnSidecar(argv, l.devDir)
	if err != nil {
		return Handle{}, nil, fmt.Errorf("failed to spawn backend sidecar: %w", err)
	}

	return Handle{PID: child.Pid(), Mode: ModeManaged, Child: child}, events, nil
}

func (l *Launcher) devArgv() ([]string, error) {
	if len(l.devCommand) > 0 && l.devCommand[0] != "" {
		return l.devCommand, nil
	}
	path, err := l.lookPath(l.backendName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendNotFound, err)
	}
	return []string{path}, nil
}
