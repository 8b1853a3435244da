// internal/util/util.go

// Package util holds small text helpers shared by logging and the terminal UI.
package util

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Truncate shortens text to at most maxRunes runes and notes how many were
// dropped, e.g. "abc… (+12 runes)". A non-positive maxRunes disables it.
func Truncate(text string, maxRunes int) string {
	n := utf8.RuneCountInString(text)
	if maxRunes <= 0 || n <= maxRunes {
		return text
	}
	runes := []rune(text)
	return fmt.Sprintf("%s… (+%d runes)", string(runes[:maxRunes]), n-maxRunes)
}

// Wrap breaks text into lines no wider than width runes. Words longer than
// width are split; blank lines are kept.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
	}
	for _, w := range words {
		r := []rune(w)
		switch {
		case len(cur) > 0 && len(cur)+1+len(r) <= width:
			cur = append(cur, ' ')
			cur = append(cur, r...)
		case len(r) <= width:
			flush()
			cur = append(cur, r...)
		default:
			flush()
			for len(r) > width {
				lines = append(lines, string(r[:width]))
				r = r[width:]
			}
			cur = append(cur, r...)
		}
	}
	flush()
	return lines
}
