package outline

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/layout"
)

// PlaceholderTitle is used when no title can be resolved.
const PlaceholderTitle = "Document"

const (
	titleRegion   = 0.3  // upper fraction of the first page searched for a title
	titleMergeGap = 50.0 // max vertical gap between merged title fragments
	minTitleRunes = 3
)

var titleStoplist = []string{"page", "abstract", "introduction"}

type titleFragment struct {
	text string
	size float64
	top  float64
}

// ResolveTitle returns the metadata title when present, otherwise the
// largest text near the top of the first page, with vertically adjacent
// fragments of the same block merged. ok is false when nothing qualifies.
func ResolveTitle(metadataTitle string, firstPage []layout.TextSpan) (title string, ok bool) {
	title, _, ok = resolveTitle(metadataTitle, firstPage)
	return title, ok
}

// resolveTitle also returns the first-page fragments the title was built
// from, so they can be kept out of the outline.
func resolveTitle(metadataTitle string, firstPage []layout.TextSpan) (string, []string, bool) {
	if t := strings.TrimSpace(metadataTitle); t != "" {
		return t, []string{t}, true
	}

	var frags []titleFragment
	for _, s := range firstPage {
		if !s.Valid() || s.PageHeight <= 0 {
			continue
		}
		text := collapseSpace(s.Text)
		if utf8.RuneCountInString(text) < minTitleRunes || inStoplist(text) {
			continue
		}
		if s.Top >= s.PageHeight*titleRegion {
			continue
		}
		frags = append(frags, titleFragment{text: text, size: s.FontSize, top: s.Top})
	}
	if len(frags) == 0 {
		return "", nil, false
	}

	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].size != frags[j].size {
			return frags[i].size > frags[j].size
		}
		return frags[i].top < frags[j].top
	})

	merged := frags[0].text
	used := []string{frags[0].text}
	for i := 1; i < len(frags); i++ {
		gap := frags[i].top - frags[i-1].top
		if gap < 0 {
			gap = -gap
		}
		if gap >= titleMergeGap {
			break
		}
		merged += " " + frags[i].text
		used = append(used, frags[i].text)
	}
	return strings.TrimSpace(merged), used, true
}

func inStoplist(text string) bool {
	for _, w := range titleStoplist {
		if strings.EqualFold(text, w) {
			return true
		}
	}
	return false
}
