package sanitization

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t\f\v]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// SanitizeString collapses whitespace and strips control characters from a
// single-line value
func SanitizeString(input string) string {
	safe := stripControl(input, false)
	safe = spaceRun.ReplaceAllString(safe, " ")
	return strings.TrimSpace(safe)
}

// SanitizeMessage keeps line breaks but normalizes them, strips other control
// characters and caps runs of blank lines
func SanitizeMessage(input string) string {
	safe := strings.ReplaceAll(input, "\r\n", "\n")
	safe = strings.ReplaceAll(safe, "\r", "\n")
	safe = stripControl(safe, true)

	lines := strings.Split(safe, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	safe = strings.Join(lines, "\n")
	safe = blankLines.ReplaceAllString(safe, "\n\n")

	return strings.TrimSpace(safe)
}

// SanitizeEmail lowercases and trims an email address
func SanitizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(stripControl(input, false)))
}

// stripControl removes Unicode control characters, optionally keeping '\n'
func stripControl(input string, keepNewlines bool) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' && keepNewlines {
			return r
		}
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}
