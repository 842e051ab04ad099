package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
)

// TextParser handles plain text files. Every line is set in one body
// font below the smallest heading size, so only numbering patterns can
// become headings. A form feed starts a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	f := newFlow(filename)
	for scanner.Scan() {
		layoutTextLine(f, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := f.document()
	doc.MetadataTitle = firstLine(doc)
	return doc, nil
}

// layoutTextLine adds one line of plain text, honoring embedded form feeds.
func layoutTextLine(f *flow, line string) {
	parts := strings.Split(line, "\f")
	for i, part := range parts {
		if i > 0 {
			f.breakPage()
		}
		if strings.TrimSpace(part) == "" {
			continue
		}
		s := bodySpan(part)
		s.FontName = monoFont
		f.addLine(s)
	}
}

// firstLine returns the first non-blank line of the document.
func firstLine(doc *layout.Document) string {
	fp := doc.FirstPage()
	if fp == nil {
		return ""
	}
	for _, l := range fp.Lines {
		var sb strings.Builder
		for _, s := range l.Spans {
			sb.WriteString(s.Text)
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			return t
		}
	}
	return ""
}
