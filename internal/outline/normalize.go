package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	spaceRunRe     = regexp.MustCompile(`\s+`)
	trailingPageRe = regexp.MustCompile(`\s+\d+$`)
	bulletRe       = regexp.MustCompile(`[•▪▫‣⁃]`)
	leadingDashRe  = regexp.MustCompile(`^\s*[-–—]\s*`)

	leaderRe     = regexp.MustCompile(`^[.\-•▪▫‣⁃]{5,}$`)
	barePageNoRe = regexp.MustCompile(`^\d{1,2}\.?$`)
)

// Normalize cleans a raw line of text: whitespace runs collapse to one
// space, a trailing page number is dropped, bullet glyphs and a leading
// dash marker are removed.
func Normalize(text string) string {
	text = collapseSpace(text)
	text = trailingPageRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "")
	text = leadingDashRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// IsNoise reports whether a cleaned line is layout debris: a leader line,
// a bare page number, or a short run of non-letters.
func IsNoise(text string) bool {
	text = strings.TrimSpace(text)
	if leaderRe.MatchString(text) {
		return true
	}
	if barePageNoRe.MatchString(text) {
		return true
	}
	if utf8.RuneCountInString(text) <= 3 && !isAlpha(text) {
		return true
	}
	return false
}

func collapseSpace(text string) string {
	return spaceRunRe.ReplaceAllString(strings.TrimSpace(text), " ")
}

// isAlpha is true for a non-empty string made only of letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isUpper is true when s has at least one cased letter and no lowercase ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
