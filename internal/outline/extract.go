// Package outline infers a document title and a leveled heading outline
// from laid-out text spans.
package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
)

// Entry is one heading in the serialized outline.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the per-document result.
type Outline struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"outline"`
}

// Extract runs the engine over one document. Font statistics are computed
// over the whole document first; only then is each line classified.
// Lines that make up the title are not repeated as outline entries.
func Extract(doc *layout.Document) *Outline {
	title, fragments := documentTitle(doc)
	th := ComputeThresholds(collectSizes(doc))
	cands := withoutTitle(classifyDocument(doc, th), fragments)
	return &Outline{
		Title:   title,
		Entries: Entries(Assemble(cands)),
	}
}

func classifyDocument(doc *layout.Document, th Thresholds) []Candidate {
	var cands []Candidate
	for _, p := range doc.Pages {
		for _, l := range p.Lines {
			c, ok := lineCandidate(l, p.Number)
			if !ok || !IsHeadingCandidate(c.Text, c.FontSize, c.Bold) {
				continue
			}
			level, ok := Classify(c.Text, c.FontSize, c.Bold, th)
			if !ok {
				continue
			}
			c.Level = level
			cands = append(cands, c)
		}
	}
	return cands
}

func documentTitle(doc *layout.Document) (string, []string) {
	var spans []layout.TextSpan
	if fp := doc.FirstPage(); fp != nil {
		spans = fp.Spans()
	}
	if t, frags, ok := resolveTitle(doc.MetadataTitle, spans); ok {
		return t, frags
	}
	return PlaceholderTitle, nil
}

// withoutTitle drops first-page candidates that repeat a title fragment.
func withoutTitle(cands []Candidate, fragments []string) []Candidate {
	if len(fragments) == 0 {
		return cands
	}
	out := cands[:0]
	for _, c := range cands {
		if c.Page == 1 && isTitleFragment(c.Text, fragments) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isTitleFragment(text string, fragments []string) bool {
	for _, f := range fragments {
		if strings.EqualFold(text, Normalize(f)) {
			return true
		}
	}
	return false
}

// Entries converts assembled candidates to output entries. The result is
// never nil so an empty outline serializes as [].
func Entries(cands []Candidate) []Entry {
	out := make([]Entry, 0, len(cands))
	for _, c := range cands {
		out = append(out, Entry{Level: c.Level, Text: c.Text, Page: c.Page})
	}
	return out
}
