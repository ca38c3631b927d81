// Package locator finds the backend executable across the layouts the
// application ships in: a macOS bundle, a Linux package, a Windows install,
// the user's data directory, and a plain development build tree.
package locator

import (
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

// RootFunc yields one or more search directories. A RootFunc that fails is
// skipped; it never aborts the search.
type RootFunc func() ([]string, error)

// Static returns a RootFunc for fixed directories.
func Static(dirs ...string) RootFunc {
	return func() ([]string, error) {
		return dirs, nil
	}
}

type Candidate struct {
	Dir  string
	Name string
}

func (c Candidate) Path() string {
	return filepath.Join(c.Dir, c.Name)
}

type Options struct {
	BackendName string
	AppID       string
	// ResourceDir and DataDir override the derived locations when set.
	ResourceDir string
	DataDir     string
	GOOS        string
	Log         zerolog.Logger
}

type Locator struct {
	roots  []RootFunc
	names  []string
	exists func(string) bool
	log    zerolog.Logger
}

// New returns a locator over the standard deployment roots, in priority
// order: the resource dir's sibling executable folder, the resource dir, its
// binaries subfolder, the user data dir, then the executable's own dir and
// its binaries subfolder.
func New(opts Options) *Locator {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	res := func() (string, error) {
		if opts.ResourceDir != "" {
			return opts.ResourceDir, nil
		}
		return resourceDir(goos, opts.AppID)
	}

	roots := []RootFunc{
		func() ([]string, error) {
			dir, err := res()
			if err != nil {
				return nil, err
			}
			return []string{siblingExecutableDir(dir, goos)}, nil
		},
		func() ([]string, error) {
			dir, err := res()
			if err != nil {
				return nil, err
			}
			return []string{dir}, nil
		},
		func() ([]string, error) {
			dir, err := res()
			if err != nil {
				return nil, err
			}
			return []string{filepath.Join(dir, "binaries")}, nil
		},
		func() ([]string, error) {
			if opts.DataDir != "" {
				return []string{opts.DataDir}, nil
			}
			dir, err := UserDataDir(goos, opts.AppID)
			if err != nil {
				return nil, err
			}
			return []string{dir}, nil
		},
		func() ([]string, error) {
			dir, err := executableDir()
			if err != nil {
				return nil, err
			}
			return []string{dir, filepath.Join(dir, "binaries")}, nil
		},
	}

	l := NewWithRoots(NameVariants(opts.BackendName, goos), roots...)
	l.log = opts.Log
	return l
}

// NewWithRoots builds a locator over explicit roots and names.
func NewWithRoots(names []string, roots ...RootFunc) *Locator {
	return &Locator{
		roots:  roots,
		names:  names,
		exists: isRegularFile,
		log:    zerolog.Nop(),
	}
}

func (l *Locator) Names() []string {
	return append([]string(nil), l.names...)
}

// Roots resolves every root in order, omitting any that fail.
func (l *Locator) Roots() []string {
	var dirs []string
	for i, root := range l.roots {
		resolved, err := root()
		if err != nil {
			l.log.Debug().Err(err).Int("root", i).Msg("search root unavailable, skipping")
			continue
		}
		for _, dir := range resolved {
			if dir != "" {
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// Candidates crosses roots and names root-major, name-minor. Repeated paths
// keep their first position.
func (l *Locator) Candidates() []Candidate {
	seen := make(map[string]bool)
	var out []Candidate
	for _, dir := range l.Roots() {
		for _, name := range l.names {
			c := Candidate{Dir: dir, Name: name}
			p := filepath.Clean(c.Path())
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, c)
		}
	}
	return out
}

// Locate returns the first candidate that exists. An earlier candidate always
// wins, even when later ones exist too.
func (l *Locator) Locate() (string, bool) {
	for _, c := range l.Candidates() {
		if l.exists(c.Path()) {
			return c.Path(), true
		}
	}
	return "", false
}

// Exists reports whether path would be accepted by Locate.
func (l *Locator) Exists(path string) bool {
	return l.exists(path)
}
