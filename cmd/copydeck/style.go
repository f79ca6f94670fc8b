package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	activeStyle = color.New(color.FgGreen, color.Bold)
	headerStyle = color.New(color.FgCyan)
)

// terminalWidth returns the column count of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
// n <= 0 means no limit.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
