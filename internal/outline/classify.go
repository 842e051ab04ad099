package outline

import (
	"regexp"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/layout"
)

// Level is a heading level tag. The string values are part of the output
// contract.
type Level string

const (
	H1 Level = "H1"
	H2 Level = "H2"
	H3 Level = "H3"
)

// Numbering patterns, checked in order before any font signal.
var levelPatterns = []struct {
	re    *regexp.Regexp
	level Level
}{
	{regexp.MustCompile(`(?i)^chapter\s+\d+`), H1},
	{regexp.MustCompile(`^\d+\.\s`), H1},
	{regexp.MustCompile(`^\d+\.\d+\s`), H2},
	{regexp.MustCompile(`^\d+\.\d+\.\d+\s`), H3},
}

// Shapes that make a line worth classifying at all. The all-caps and
// title-case shapes are case-sensitive; folded, they would match any line.
var headingShapes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^chapter\s+\d+`),
	regexp.MustCompile(`^\d+\.\s`),
	regexp.MustCompile(`^\d+\.\d+\s`),
	regexp.MustCompile(`^\d+\.\d+\.\d+\s`),
	regexp.MustCompile(`^[A-Z][A-Z\s]{2,}$`),
	regexp.MustCompile(`^[A-Z][a-z]+\s[A-Z][a-z]+`),
}

const (
	minLineRunes     = 2
	maxLineRunes     = 200
	candidateMinSize = 10.0
	boldMaxRunes     = 100
	boldH2MinSize    = 11.0
	boldH3MinSize    = 9.0
)

// Classify assigns a heading level to a cleaned line. Numbering patterns
// win over font size, and font size wins over the bold fallback. ok is
// false when the line is body text.
func Classify(text string, avgFontSize float64, bold bool, th Thresholds) (Level, bool) {
	for _, p := range levelPatterns {
		if p.re.MatchString(text) {
			return p.level, true
		}
	}

	switch {
	case avgFontSize >= th.H1:
		return H1, true
	case avgFontSize >= th.H2:
		return H2, true
	case avgFontSize >= th.H3:
		return H3, true
	}

	if bold && utf8.RuneCountInString(text) < boldMaxRunes {
		switch {
		case avgFontSize >= boldH2MinSize:
			return H2, true
		case avgFontSize >= boldH3MinSize:
			return H3, true
		}
	}
	return "", false
}

// IsHeadingCandidate is the gate a cleaned line must pass before it is
// classified.
func IsHeadingCandidate(text string, avgFontSize float64, bold bool) bool {
	n := utf8.RuneCountInString(text)
	if n < minLineRunes || n > maxLineRunes {
		return false
	}
	return matchesHeadingShape(text) || avgFontSize > candidateMinSize || bold || isUpper(text)
}

func matchesHeadingShape(text string) bool {
	for _, re := range headingShapes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// lineCandidate merges the non-blank spans of a line into one heading
// candidate with an averaged font size. ok is false for lines without
// usable spans.
func lineCandidate(line layout.Line, page int) (Candidate, bool) {
	var (
		text  string
		total float64
		count int
		c     Candidate
	)
	for _, s := range line.Spans {
		if s.Blank() || !s.Valid() {
			continue
		}
		text += s.Text
		total += s.FontSize
		count++
		if s.IsBold() {
			c.Bold = true
		}
		c.FontName = s.FontName
	}
	if count == 0 {
		return Candidate{}, false
	}
	c.Text = Normalize(text)
	c.FontSize = total / float64(count)
	c.Page = page
	return c, true
}
