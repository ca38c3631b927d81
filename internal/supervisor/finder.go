package supervisor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// signaler is the per-platform kill capability. terminate asks politely,
// kill does not.
type signaler interface {
	terminate(pid int) error
	kill(pid int) error
}

// finder locates straggler backends for the final sweep.
type finder interface {
	find() []int
}

// procFinder matches any process whose name or command line mentions the
// backend, plus any process with a socket bound to the health port. It will
// match backends this shell did not start.
type procFinder struct {
	needle string
	port   int
	log    zerolog.Logger
}

func newProcFinder(backendName string, port int, log zerolog.Logger) procFinder {
	return procFinder{
		needle: strings.ToLower(backendName),
		port:   port,
		log:    log,
	}
}

func (f procFinder) find() []int {
	skip := make(map[int]bool)
	for _, pid := range ancestors() {
		skip[pid] = true
	}
	seen := make(map[int]bool)
	var pids []int
	add := func(pid int) {
		if pid <= 0 || skip[pid] || seen[pid] {
			return
		}
		seen[pid] = true
		pids = append(pids, pid)
	}

	procs, err := process.Processes()
	if err != nil {
		f.log.Debug().Err(err).Msg("process enumeration failed")
	}
	for _, p := range procs {
		if f.matches(p) {
			add(int(p.Pid))
		}
	}

	if f.port > 0 {
		conns, err := net.Connections("tcp")
		if err != nil {
			f.log.Debug().Err(err).Msg("socket enumeration failed")
		}
		for _, c := range conns {
			if int(c.Laddr.Port) == f.port {
				add(int(c.Pid))
			}
		}
	}

	return pids
}

// maxAncestry bounds the parent walk in case of a PID cycle.
const maxAncestry = 64

// ancestors returns this process and every parent above it. A launcher script
// whose command line names the backend must never be swept.
func ancestors() []int {
	chain := []int{os.Getpid()}
	if ppid := os.Getppid(); ppid > 1 {
		chain = append(chain, ppid)
	}
	for len(chain) < maxAncestry {
		p, err := process.NewProcess(int32(chain[len(chain)-1]))
		if err != nil {
			break
		}
		ppid, err := p.Ppid()
		if err != nil || ppid <= 1 {
			break
		}
		next := int(ppid)
		if next == chain[len(chain)-1] {
			break
		}
		chain = append(chain, next)
	}
	return chain
}

func (f procFinder) matches(p *process.Process) bool {
	if f.needle == "" {
		return false
	}
	if name, err := p.Name(); err == nil && strings.Contains(strings.ToLower(name), f.needle) {
		return true
	}
	if cmdline, err := p.Cmdline(); err == nil && strings.Contains(strings.ToLower(cmdline), f.needle) {
		return true
	}
	return false
}

// processAlive reports whether pid exists and still looks like the backend,
// guarding against a recycled PID from a stale PID file.
func processAlive(pid int, needles ...string) bool {
	if pid <= 0 {
		return false
	}
	ok, err := process.PidExists(int32(pid))
	if err != nil || !ok {
		return false
	}
	if len(needles) == 0 {
		return true
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	var seen []string
	if name, err := p.Name(); err == nil {
		seen = append(seen, strings.ToLower(name))
	}
	if exe, err := p.Exe(); err == nil {
		seen = append(seen, strings.ToLower(filepath.Base(exe)))
	}
	if cmdline, err := p.Cmdline(); err == nil {
		seen = append(seen, strings.ToLower(cmdline))
	}
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		needle = strings.ToLower(needle)
		for _, s := range seen {
			if strings.Contains(s, needle) {
				return true
			}
		}
	}
	return false
}
