package outline

import "sort"

// Candidate is a classified line on its way into the outline.
type Candidate struct {
	Text     string
	Level    Level
	Page     int
	FontSize float64 // average over the line's spans
	FontName string
	Bold     bool
}

type entryKey struct {
	text string
	page int
}

// Assemble drops noise, keeps the first candidate for each (text, page)
// pair and orders the rest by page, then by descending font size.
// The sort is stable, so equal keys keep their input order.
func Assemble(cands []Candidate) []Candidate {
	seen := make(map[entryKey]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if IsNoise(c.Text) {
			continue
		}
		k := entryKey{text: c.Text, page: c.Page}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].FontSize > out[j].FontSize
	})
	return out
}
