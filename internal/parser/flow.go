package parser

import "github.com/dgallion1/docoutline/internal/layout"

// Formats without physical pages are flowed onto virtual US-letter pages
// so they share the PDF span model.
const (
	virtualPageHeight = 792.0
	lineAdvance       = 1.2
	bodyFontSize      = 9.5
	bodyFont          = "Times-Roman"
	boldFont          = "Times-Bold"
	monoFont          = "Courier"
)

// headingSizes maps heading levels 1-6 to synthetic font sizes.
var headingSizes = [...]float64{24, 18, 15, 13, 12, 11.5}

func headingSize(level int) float64 {
	if level < 1 {
		return bodyFontSize
	}
	if level > len(headingSizes) {
		level = len(headingSizes)
	}
	return headingSizes[level-1]
}

// flow stacks lines top to bottom and starts a new page when one is full.
type flow struct {
	doc *layout.Document
	y   float64
}

func newFlow(filename string) *flow {
	return &flow{doc: &layout.Document{Filename: filename}}
}

// addLine places spans on one line. The tallest span sets the advance.
func (f *flow) addLine(spans ...layout.TextSpan) {
	if len(spans) == 0 {
		return
	}
	height := 0.0
	for _, s := range spans {
		if s.FontSize > height {
			height = s.FontSize
		}
	}
	height *= lineAdvance

	if len(f.doc.Pages) == 0 || f.y+height > virtualPageHeight {
		f.newPage()
	}
	p := &f.doc.Pages[len(f.doc.Pages)-1]
	line := layout.Line{Spans: make([]layout.TextSpan, len(spans))}
	for i, s := range spans {
		s.Top = f.y
		s.PageHeight = virtualPageHeight
		s.Page = p.Number
		line.Spans[i] = s
	}
	p.Lines = append(p.Lines, line)
	f.y += height
}

// breakPage forces the next line onto a new page. Repeated breaks do
// not produce empty pages.
func (f *flow) breakPage() {
	if len(f.doc.Pages) == 0 || len(f.doc.Pages[len(f.doc.Pages)-1].Lines) == 0 {
		return
	}
	f.newPage()
}

func (f *flow) newPage() {
	f.doc.Pages = append(f.doc.Pages, layout.Page{
		Number: len(f.doc.Pages) + 1,
		Height: virtualPageHeight,
	})
	f.y = 0
}

func (f *flow) document() *layout.Document {
	return f.doc
}

func bodySpan(text string) layout.TextSpan {
	return layout.TextSpan{Text: text, FontSize: bodyFontSize, FontName: bodyFont}
}

func styledSpan(text string, size float64, bold bool) layout.TextSpan {
	s := layout.TextSpan{Text: text, FontSize: size, FontName: bodyFont}
	if bold {
		s.FontName = boldFont
		s.Flags |= layout.FlagBold
	}
	return s
}
