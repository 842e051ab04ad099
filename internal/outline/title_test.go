package outline

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/layout"
)

func firstPageSpan(text string, size, top float64) layout.TextSpan {
	return layout.TextSpan{Text: text, FontSize: size, FontName: "Helvetica", Top: top, PageHeight: 800, Page: 1}
}

func TestResolveTitle_MetadataWins(t *testing.T) {
	spans := []layout.TextSpan{firstPageSpan("Layout Title", 30, 10)}
	got, ok := ResolveTitle("  Metadata Title ", spans)
	if !ok || got != "Metadata Title" {
		t.Errorf("expected %q, got %q (ok=%v)", "Metadata Title", got, ok)
	}
}

func TestResolveTitle_NoCandidates(t *testing.T) {
	spans := []layout.TextSpan{
		firstPageSpan("ab", 30, 10),
		firstPageSpan("Page", 30, 10),
		firstPageSpan("ABSTRACT", 30, 10),
		firstPageSpan("Far Down The Page", 30, 500),
		{Text: "Broken", FontSize: 0, Top: 10, PageHeight: 800, Page: 1},
	}
	if got, ok := ResolveTitle("", spans); ok {
		t.Errorf("expected no title, got %q", got)
	}
	if _, ok := ResolveTitle("   ", nil); ok {
		t.Error("expected no title for blank metadata and no spans")
	}
}

func TestResolveTitle_MergesAdjacentFragments(t *testing.T) {
	spans := []layout.TextSpan{
		firstPageSpan("Prepared by the team", 12, 230),
		firstPageSpan("Report", 24, 80),
		firstPageSpan("Annual", 24, 50),
		firstPageSpan("Subtitle text", 14, 200),
	}
	got, ok := ResolveTitle("", spans)
	if !ok {
		t.Fatal("expected a title")
	}
	if got != "Annual Report" {
		t.Errorf("expected %q, got %q", "Annual Report", got)
	}
}

func TestResolveTitle_MergeStopsAtGap(t *testing.T) {
	spans := []layout.TextSpan{
		firstPageSpan("First Line", 20, 40),
		firstPageSpan("Second Line", 20, 90),
	}
	got, _ := ResolveTitle("", spans)
	if got != "First Line" {
		t.Errorf("expected gap of 50 to stop merging, got %q", got)
	}

	spans[1].Top = 89
	got, _ = ResolveTitle("", spans)
	if got != "First Line Second Line" {
		t.Errorf("expected merged title, got %q", got)
	}
}

func TestResolveTitle_CollapsesWhitespace(t *testing.T) {
	got, _ := ResolveTitle("", []layout.TextSpan{firstPageSpan("  Spaced   Out  Title ", 18, 20)})
	if got != "Spaced Out Title" {
		t.Errorf("expected %q, got %q", "Spaced Out Title", got)
	}
}
