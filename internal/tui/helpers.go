package tui

import (
	"strconv"
	"strings"
)

// truncate shortens a string to n runes with ellipsis, flattening newlines
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 4 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-3]) + "..."
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
