package layout

import (
	"math"
	"strings"
)

// FlagBold is the font-flag bit that marks a bold span.
const FlagBold = 1 << 4

// TextSpan is a run of text sharing one font style, as reported by a parser.
type TextSpan struct {
	Text       string  // Raw text, not yet normalized
	FontSize   float64 // Font size in layout units
	FontName   string  // Font family name, e.g. "Helvetica-Bold"
	Flags      int     // Font flags; FlagBold marks bold
	Top        float64 // Distance of the top edge from the top of the page
	PageHeight float64
	Page       int // 1-based
}

// IsBold reports whether the font name or the flags mark the span bold.
func (s TextSpan) IsBold() bool {
	return strings.Contains(strings.ToLower(s.FontName), "bold") || s.Flags&FlagBold != 0
}

// Valid reports whether the span carries usable font and geometry fields.
func (s TextSpan) Valid() bool {
	if s.FontSize <= 0 || math.IsNaN(s.FontSize) || math.IsInf(s.FontSize, 0) {
		return false
	}
	if math.IsNaN(s.Top) || math.IsNaN(s.PageHeight) {
		return false
	}
	return s.Page > 0
}

// Blank reports whether the span has no visible text.
func (s TextSpan) Blank() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Line is one or more spans on the same visual text line.
type Line struct {
	Spans []TextSpan
}

// Page is a single page of laid-out lines.
type Page struct {
	Number int     // 1-based
	Height float64 // Page height in layout units
	Lines  []Line
}

// Spans returns every span on the page in line order.
func (p *Page) Spans() []TextSpan {
	var out []TextSpan
	for _, l := range p.Lines {
		out = append(out, l.Spans...)
	}
	return out
}

// Document is the laid-out content of one input file.
type Document struct {
	Filename      string
	MetadataTitle string // Title from document metadata, empty if none
	Pages         []Page
}

// FirstPage returns the first page, or nil for an empty document.
func (d *Document) FirstPage() *Page {
	if d == nil || len(d.Pages) == 0 {
		return nil
	}
	return &d.Pages[0]
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}
