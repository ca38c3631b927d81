package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = !enabled
	t.Cleanup(func() { color.NoColor = prev })
}

func drawLines(t *testing.T, draw func(*TerminalUI)) []string {
	t.Helper()
	var buf bytes.Buffer
	draw(NewWriterUI(&buf))
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestTerminalUI_DrawBox(t *testing.T) {
	withColor(t, false)

	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:    "backend path",
			content: "/opt/xfactor/resources/xfactor-backend",
			expected: []string{
				"┌────────────────────────────────────────┐",
				"│ /opt/xfactor/resources/xfactor-backend │",
				"└────────────────────────────────────────┘",
			},
		},
		{
			name:    "status marks pad by rune",
			content: Status(true) + " healthy\n" + Status(false) + " pid file",
			expected: []string{
				"┌────────────┐",
				"│ ✓ healthy  │",
				"│ ✗ pid file │",
				"└────────────┘",
			},
		},
		{
			name:    "no candidates",
			content: "",
			expected: []string{
				"┌──┐",
				"└──┘",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := drawLines(t, func(u *TerminalUI) { u.DrawBox(tt.content) })
			assert.Equal(t, tt.expected, lines)
		})
	}
}

func TestTerminalUI_DrawBoxIgnoresColorCodes(t *testing.T) {
	withColor(t, true)

	lines := drawLines(t, func(u *TerminalUI) {
		u.DrawBox(Status(true) + " 127.0.0.1:9876\nbackend")
	})
	require.Len(t, lines, 4)
	assert.Equal(t, "┌──────────────────┐", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "127.0.0.1:9876 │"), lines[1])
	assert.Equal(t, "│ backend          │", lines[2])
	assert.Equal(t, 20, visibleWidth(lines[1]))
}

func TestTerminalUI_DrawReport(t *testing.T) {
	withColor(t, false)

	lines := drawLines(t, func(u *TerminalUI) {
		u.DrawReport("System", []Field{
			{Label: "OS", Value: "linux"},
			{Label: "Arch", Value: "x86_64"},
			{Label: "Version", Value: "1.2.0"},
		})
	})
	require.Len(t, lines, 6)
	assert.Equal(t, "│ System           │", lines[1])
	assert.Equal(t, "│ OS:       linux  │", lines[2])
	assert.Equal(t, "│ Arch:     x86_64 │", lines[3])
	assert.Equal(t, "│ Version:  1.2.0  │", lines[4])
}

func TestTerminalUI_DrawReportWithStatusValues(t *testing.T) {
	withColor(t, false)

	lines := drawLines(t, func(u *TerminalUI) {
		u.DrawReport("Backend", []Field{
			{Label: "Binary", Value: Status(true) + " found"},
			{Label: "Health", Value: Status(false) + " down"},
			{Label: "Listener", Value: "-"},
		})
	})
	require.Len(t, lines, 6)
	assert.Equal(t, "│ Backend            │", lines[1])
	assert.Equal(t, "│ Binary:    ✓ found │", lines[2])
	assert.Equal(t, "│ Health:    ✗ down  │", lines[3])
	assert.Equal(t, "│ Listener:  -       │", lines[4])
}

func TestStatus(t *testing.T) {
	withColor(t, false)
	assert.Equal(t, "✓", Status(true))
	assert.Equal(t, "✗", Status(false))

	withColor(t, true)
	assert.NotEqual(t, "✓", Status(true))
	assert.Equal(t, 1, visibleWidth(Status(true)))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"report with trailing newline", "OS:  linux\nArch:  arm64\n", []string{"OS:  linux", "Arch:  arm64"}},
		{"blank row kept", "Backend\n\npid 4242", []string{"Backend", "", "pid 4242"}},
		{"nothing to draw", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.content))
		})
	}
}

func TestRepeatStr(t *testing.T) {
	assert.Equal(t, "───", repeatStr("─", 3))
	assert.Empty(t, repeatStr(" ", 0))
	assert.Empty(t, repeatStr(" ", -2), "wider lines never produce negative padding")
}
