package supervisor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PIDFile remembers the detached backend across shell invocations. The format
// is the PID on the first line and the launched binary on the second.
type PIDFile struct {
	path string
}

type PIDRecord struct {
	PID    int
	Binary string
}

func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

func (f *PIDFile) Path() string {
	return f.path
}

func (f *PIDFile) Write(pid int, binary string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	data := fmt.Sprintf("%d\n%s\n", pid, binary)
	return os.WriteFile(f.path, []byte(data), 0644)
}

func (f *PIDFile) Read() (PIDRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return PIDRecord{}, err
	}

	lines := strings.Split(string(data), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || pid <= 0 {
		return PIDRecord{}, fmt.Errorf("invalid PID file %s", f.path)
	}

	rec := PIDRecord{PID: pid}
	if len(lines) >= 2 {
		rec.Binary = strings.TrimSpace(lines[1])
	}
	return rec, nil
}

// Remove deletes the file; a missing file is not an error.
func (f *PIDFile) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
