package layout

import (
	"math"
	"testing"
)

func TestTextSpan_IsBold(t *testing.T) {
	tests := []struct {
		name string
		span TextSpan
		want bool
	}{
		{"font name", TextSpan{FontName: "Arial-BoldMT"}, true},
		{"font name lowercase", TextSpan{FontName: "timesbold"}, true},
		{"flag only", TextSpan{FontName: "Helvetica", Flags: FlagBold}, true},
		{"both", TextSpan{FontName: "Helvetica-Bold", Flags: FlagBold}, true},
		{"other flags", TextSpan{FontName: "Helvetica", Flags: 1 << 1}, false},
		{"regular", TextSpan{FontName: "Helvetica"}, false},
	}
	for _, tt := range tests {
		if got := tt.span.IsBold(); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestTextSpan_Valid(t *testing.T) {
	good := TextSpan{Text: "x", FontSize: 10, Top: 5, PageHeight: 800, Page: 1}
	if !good.Valid() {
		t.Error("expected well-formed span to be valid")
	}

	bad := []TextSpan{
		{Text: "x", FontSize: 0, Page: 1},
		{Text: "x", FontSize: -2, Page: 1},
		{Text: "x", FontSize: math.NaN(), Page: 1},
		{Text: "x", FontSize: 10, Top: math.NaN(), Page: 1},
		{Text: "x", FontSize: 10, Page: 0},
	}
	for i, s := range bad {
		if s.Valid() {
			t.Errorf("span %d: expected invalid", i)
		}
	}
}

func TestDocument_FirstPage(t *testing.T) {
	var nilDoc *Document
	if nilDoc.FirstPage() != nil {
		t.Error("expected nil first page for nil document")
	}
	if (&Document{}).FirstPage() != nil {
		t.Error("expected nil first page for empty document")
	}

	doc := &Document{Pages: []Page{{Number: 1}, {Number: 2}}}
	if fp := doc.FirstPage(); fp == nil || fp.Number != 1 {
		t.Fatalf("expected page 1, got %+v", fp)
	}
	if doc.PageCount() != 2 {
		t.Errorf("expected 2 pages, got %d", doc.PageCount())
	}
}

func TestPage_Spans(t *testing.T) {
	p := Page{Lines: []Line{
		{Spans: []TextSpan{{Text: "a"}, {Text: "b"}}},
		{Spans: []TextSpan{{Text: "c"}}},
	}}
	spans := p.Spans()
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	if spans[2].Text != "c" {
		t.Errorf("expected last span %q, got %q", "c", spans[2].Text)
	}
}
