package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/fumiama/go-docx"
)

const docxTitleSize = 26.0

// DOCXParser handles .docx files. Paragraph styles map to font sizes and
// bold runs keep their bold flag.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	f := newFlow(filename)
	title := ""
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		style := docxStyle(para)
		size := bodyFontSize
		headingBold := false
		switch {
		case strings.EqualFold(style, "Title"):
			size = docxTitleSize
			headingBold = true
		default:
			if level := docxHeadingLevel(style); level > 0 {
				size = headingSize(level)
				headingBold = true
			}
		}

		spans := docxRunSpans(para, size, headingBold)
		if len(spans) == 0 {
			continue
		}
		if title == "" && strings.EqualFold(style, "Title") {
			title = joinSpanText(spans)
		}
		f.addLine(spans...)
	}

	out := f.document()
	out.MetadataTitle = title
	return out, nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// docxHeadingLevel returns 1-6 for "Heading1" or "heading 1" styles.
func docxHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") || len(s) != len("heading")+1 {
		return 0
	}
	level := int(s[len(s)-1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}

// docxRunSpans returns one span per run with text.
func docxRunSpans(para *docx.Paragraph, size float64, bold bool) []layout.TextSpan {
	var spans []layout.TextSpan
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var buf strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
		if buf.Len() == 0 {
			continue
		}
		runBold := bold || (run.RunProperties != nil && run.RunProperties.Bold != nil)
		spans = append(spans, styledSpan(buf.String(), size, runBold))
	}
	return spans
}

func joinSpanText(spans []layout.TextSpan) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return strings.TrimSpace(sb.String())
}
