package outline

import (
	"sort"

	"github.com/dgallion1/docoutline/internal/layout"
)

// Thresholds are the font-size cutoffs that map a line's size to a level.
type Thresholds struct {
	Title float64
	H1    float64
	H2    float64
	H3    float64
}

// DefaultThresholds returns the fixed cutoffs used when a document has too
// few distinct sizes to calibrate from.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Title: 16.0,
		H1:    14.0,
		H2:    12.0,
		H3:    10.0,
	}
}

// minDistinctSizes is the number of size tiers needed to calibrate.
const minDistinctSizes = 4

// ComputeThresholds derives per-document cutoffs from every span size.
// The largest size class is reserved for titles; the next three tiers
// become H1, H2 and H3. With fewer than four distinct sizes the defaults
// are returned unchanged.
func ComputeThresholds(sizes []float64) Thresholds {
	th := DefaultThresholds()

	seen := make(map[float64]bool, len(sizes))
	distinct := make([]float64, 0, len(sizes))
	for _, s := range sizes {
		if s <= 0 || seen[s] {
			continue
		}
		seen[s] = true
		distinct = append(distinct, s)
	}
	if len(distinct) < minDistinctSizes {
		return th
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))
	th.H1 = distinct[1]
	th.H2 = distinct[2]
	th.H3 = distinct[3]
	return th
}

// collectSizes gathers the font size of every non-blank, well-formed span.
func collectSizes(doc *layout.Document) []float64 {
	var sizes []float64
	for _, p := range doc.Pages {
		for _, l := range p.Lines {
			for _, s := range l.Spans {
				if s.Blank() || !s.Valid() {
					continue
				}
				sizes = append(sizes, s.FontSize)
			}
		}
	}
	return sizes
}
