package supervisor

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeProbe struct {
	mu    sync.Mutex
	alive bool
	calls int
}

func (p *fakeProbe) IsAlive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.alive
}

type fakeLocator struct {
	path string
}

func (l *fakeLocator) Locate() (string, bool) {
	return l.path, l.path != ""
}

// exitedChild is a managed handle whose process is already gone.
func exitedChild(pid int) *Child {
	done := make(chan struct{})
	close(done)
	return &Child{pid: pid, done: done}
}

type fakeLauncher struct {
	mu          sync.Mutex
	pid         int
	launchErr   error
	devErr      error
	launched    []string
	devLaunches int
	events      chan Event
}

func (l *fakeLauncher) Launch(path string) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched = append(l.launched, path)
	if l.launchErr != nil {
		return Handle{}, l.launchErr
	}
	return Handle{PID: l.pid, Mode: ModeDetached}, nil
}

func (l *fakeLauncher) LaunchDev() (Handle, <-chan Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.devLaunches++
	if l.devErr != nil {
		return Handle{}, nil, l.devErr
	}
	child := exitedChild(5000 + l.devLaunches)
	events := l.events
	if events == nil {
		events = make(chan Event)
	}
	return Handle{PID: child.Pid(), Mode: ModeManaged, Child: child}, events, nil
}

func (l *fakeLauncher) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.launched), l.devLaunches
}

type fakeSignaler struct {
	mu      sync.Mutex
	calls   *[]string
	failing map[int]bool
}

func (s *fakeSignaler) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.calls = append(*s.calls, call)
}

func (s *fakeSignaler) terminate(pid int) error {
	s.record(fmt.Sprintf("terminate:%d", pid))
	if s.failing[pid] {
		return errors.New("no such process")
	}
	return nil
}

func (s *fakeSignaler) kill(pid int) error {
	s.record(fmt.Sprintf("kill:%d", pid))
	if s.failing[pid] {
		return errors.New("no such process")
	}
	return nil
}

type fakeFinder struct {
	mu    sync.Mutex
	pids  []int
	calls int
}

func (f *fakeFinder) find() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]int(nil), f.pids...)
}

func (f *fakeFinder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type harness struct {
	sup      *Supervisor
	probe    *fakeProbe
	locator  *fakeLocator
	launcher *fakeLauncher
	sig      *fakeSignaler
	finder   *fakeFinder
	calls    *[]string
	logs     *syncBuffer
}

func (h *harness) recorded() []string {
	h.sig.mu.Lock()
	defer h.sig.mu.Unlock()
	return append([]string(nil), (*h.calls)...)
}

func newHarness() *harness {
	calls := &[]string{}
	sig := &fakeSignaler{calls: calls, failing: map[int]bool{}}
	logs := &syncBuffer{}
	log := zerolog.New(logs)

	state := NewState()
	fnd := &fakeFinder{}
	reaper := newReaper(state, sig, fnd, 10*time.Millisecond, log)
	reaper.sleep = func(d time.Duration) { sig.record(fmt.Sprintf("sleep:%s", d)) }

	h := &harness{
		probe:    &fakeProbe{},
		locator:  &fakeLocator{},
		launcher: &fakeLauncher{pid: 4242},
		sig:      sig,
		finder:   fnd,
		calls:    calls,
		logs:     logs,
	}
	h.sup = &Supervisor{
		state:    state,
		probe:    h.probe,
		locator:  h.locator,
		launcher: h.launcher,
		reaper:   reaper,
		alive:    func(int, ...string) bool { return false },
		names:    []string{"xfactor-backend"},
		log:      log,
	}
	return h
}
