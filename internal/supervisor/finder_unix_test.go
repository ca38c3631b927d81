//go:build !windows

package supervisor

import (
	"os"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAncestors_IncludesSelfAndParent(t *testing.T) {
	chain := ancestors()
	require.NotEmpty(t, chain)
	assert.Equal(t, os.Getpid(), chain[0])
	if os.Getppid() > 1 {
		assert.Contains(t, chain, os.Getppid())
	}
	assert.NotContains(t, chain, 1, "init is never part of the walk")
}

func TestProcFinder_SkipsInvokingChain(t *testing.T) {
	chain := ancestors()
	if len(chain) < 2 {
		t.Skip("test process has no parent to match")
	}

	// Match on the parent's own name, the way a launcher script named after
	// the backend would be matched.
	parent, err := process.NewProcess(int32(chain[1]))
	require.NoError(t, err)
	name, err := parent.Name()
	require.NoError(t, err)
	require.NotEmpty(t, name)

	found := newProcFinder(name, 0, zerolog.Nop()).find()
	for _, pid := range chain {
		assert.NotContains(t, found, pid, "ancestor %d must not be swept", pid)
	}
}

func TestProcFinder_FindsMatchingProcess(t *testing.T) {
	cmd := exec.Command("sleep", "31.4159")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	found := newProcFinder("31.4159", 0, zerolog.Nop()).find()
	assert.Contains(t, found, cmd.Process.Pid)
	assert.NotContains(t, found, os.Getpid())
}

func TestProcFinder_EmptyNeedleMatchesNothing(t *testing.T) {
	assert.Empty(t, newProcFinder("", 0, zerolog.Nop()).find())
}
