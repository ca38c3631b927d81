package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Field is one labelled row of a report box.
type Field struct {
	Label string
	Value string
}

type TerminalUI struct {
	out io.Writer
}

// NewWriterUI renders to w instead of stdout.
func NewWriterUI(w io.Writer) *TerminalUI {
	return &TerminalUI{out: w}
}

func (t *TerminalUI) DrawBox(content string) {
	lines := splitLines(content)
	maxLen := 0
	for _, line := range lines {
		if n := visibleWidth(line); n > maxLen {
			maxLen = n
		}
	}

	fmt.Fprintf(t.out, "┌%s┐\n", repeatStr("─", maxLen+2))
	for _, line := range lines {
		pad := maxLen - visibleWidth(line)
		fmt.Fprintf(t.out, "│ %s%s │\n", line, repeatStr(" ", pad))
	}
	fmt.Fprintf(t.out, "└%s┘\n", repeatStr("─", maxLen+2))
}

// DrawReport draws a titled box with aligned label/value rows.
func (t *TerminalUI) DrawReport(title string, fields []Field) {
	width := 0
	for _, f := range fields {
		if n := utf8.RuneCountInString(f.Label); n > width {
			width = n
		}
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "%-*s  %s\n", width+1, f.Label+":", f.Value)
	}
	t.DrawBox(b.String())
}

// Status renders a check mark or cross, colored when the terminal allows it.
func Status(ok bool) string {
	if ok {
		return color.GreenString("✓")
	}
	return color.RedString("✗")
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleWidth counts runes a terminal shows, ignoring color escapes.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansiEscape.ReplaceAllString(s, ""))
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func repeatStr(s string, count int) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(s, count)
}
