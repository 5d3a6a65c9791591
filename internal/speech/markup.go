package speech

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to text cut by Truncate.
const TruncationMarker = "\n\n... (explanation truncated)"

var (
	tagPattern   = regexp.MustCompile(`<[^<]+?>`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	spaceRuns    = regexp.MustCompile(`[ \t]{2,}`)
	speakPattern = regexp.MustCompile(`(?is)^\s*<speak[\s>]`)
)

// StripMarkup removes every tag from text and tidies the whitespace left
// behind.
func StripMarkup(text string) string {
	s := tagPattern.ReplaceAllString(text, " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}

// WrapSSML returns text as a <speak> document, leaving it untouched when it
// already is one.
func WrapSSML(text string) string {
	text = strings.TrimSpace(text)
	if speakPattern.MatchString(text) {
		return text
	}
	return "<speak>" + text + "</speak>"
}

// Truncate limits text to max runes including the marker. Text within the
// limit is returned unchanged.
func Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	keep := max - utf8.RuneCountInString(TruncationMarker)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:keep]), " \n") + TruncationMarker
}
