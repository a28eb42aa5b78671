// Package util provides small text helpers shared by the board and the CLI.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// Truncate shortens s to at most maxWidth terminal columns, ending in an
// ellipsis when anything was cut. Escape sequences and wide characters are
// measured correctly.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return Ellipsis
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// FirstLine returns the first non-blank line of s, trimmed. It reports
// whether more non-blank text follows.
func FirstLine(s string) (line string, more bool) {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	line = strings.TrimSpace(lines[0])
	return line, len(lines) > 1
}

// Summary returns a single-line preview of s no wider than maxWidth.
func Summary(s string, maxWidth int) string {
	line, more := FirstLine(s)
	if more && line != "" {
		line += " " + Ellipsis
	}
	return Truncate(line, maxWidth)
}
