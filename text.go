package presskit

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// replacementChar stands in for characters the core fonts cannot show.
const replacementChar = '?'

// toWinAnsi converts UTF-8 text to the cp1252 byte string expected by the
// core fonts. Characters outside cp1252 are replaced with '?' and counted.
// Tabs become spaces, carriage returns are dropped and other control
// characters become spaces; newlines are kept for the wrapper.
func toWinAnsi(s string) (string, int) {
	s = norm.NFC.String(s)
	var sb strings.Builder
	sb.Grow(len(s))
	bad := 0
	for i, w := 0, 0; i < len(s); i += w {
		r, size := utf8.DecodeRuneInString(s[i:])
		w = size
		switch {
		case r == '\n':
			sb.WriteByte('\n')
			continue
		case r == '\r':
			continue
		case r < 0x20:
			sb.WriteByte(' ')
			continue
		case r == utf8.RuneError && size <= 1:
			sb.WriteByte(replacementChar)
			bad++
			continue
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = replacementChar
			bad++
		}
		sb.WriteByte(b)
	}
	return sb.String(), bad
}

// fromWinAnsi converts a cp1252 byte string back to UTF-8.
func fromWinAnsi(s string) string {
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// wrapText splits text into lines no wider than width using a greedy word
// wrap without hyphenation. Explicit newlines start new lines, runs of
// spaces collapse, and words wider than width are broken between
// characters. Empty input yields a single empty line.
func wrapText(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, hard := range strings.Split(text, "\n") {
		lines = appendWrapped(lines, hard, width, measure)
	}
	return lines
}

func appendWrapped(lines []string, hard string, width float64, measure func(string) float64) []string {
	words := strings.Fields(hard)
	if len(words) == 0 {
		return append(lines, "")
	}
	cur := ""
	for _, word := range words {
		if measure(word) > width {
			if cur != "" {
				lines = append(lines, cur)
			}
			var pieces []string
			pieces, cur = breakWord(word, width, measure)
			lines = append(lines, pieces...)
			continue
		}
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if measure(candidate) <= width {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = word
	}
	return append(lines, cur)
}

// breakWord cuts an over-long word into full-width pieces and returns the
// remainder separately so following words can join it. Input is a
// single-byte encoded string, so byte offsets are character offsets.
func breakWord(word string, width float64, measure func(string) float64) ([]string, string) {
	var pieces []string
	for len(word) > 0 {
		n := 1
		for n < len(word) && measure(word[:n+1]) <= width {
			n++
		}
		if n == len(word) {
			return pieces, word
		}
		pieces = append(pieces, word[:n])
		word = word[n:]
	}
	return pieces, ""
}
