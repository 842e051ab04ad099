package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Heading levels
// become font sizes, strong emphasis becomes bold and a thematic break
// starts a new page.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	f := newFlow(filename)
	title := ""
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && title == "" {
			title = strings.TrimSpace(inlineText(h, src))
		}
		layoutMarkdownBlock(f, n, src)
	}

	out := f.document()
	out.MetadataTitle = title
	return out, nil
}

// layoutMarkdownBlock lays out a block node, recursing into containers
// such as lists and block quotes.
func layoutMarkdownBlock(f *flow, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		size := headingSize(node.Level)
		if spans := inlineSpans(node, src, size, true); len(spans) > 0 {
			f.addLine(spans...)
		}
	case *ast.ThematicBreak:
		f.breakPage()
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimRight(string(seg.Value(src)), "\n")
			if strings.TrimSpace(line) == "" {
				continue
			}
			s := bodySpan(line)
			s.FontName = monoFont
			f.addLine(s)
		}
	case *ast.Paragraph, *ast.TextBlock:
		for _, line := range splitInlineLines(node, src) {
			f.addLine(line...)
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			layoutMarkdownBlock(f, c, src)
		}
	}
}

// inlineSpans collects the inline children of a node as spans on one line.
// Headings are always bold.
func inlineSpans(n ast.Node, src []byte, size float64, bold bool) []layout.TextSpan {
	var spans []layout.TextSpan
	var walk func(ast.Node, bool)
	walk = func(n ast.Node, bold bool) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				t := string(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					t += " "
				}
				spans = append(spans, styledSpan(t, size, bold))
			case *ast.String:
				spans = append(spans, styledSpan(string(node.Value), size, bold))
			case *ast.CodeSpan:
				s := styledSpan(inlineText(node, src), size, bold)
				s.FontName = monoFont
				spans = append(spans, s)
			case *ast.Emphasis:
				walk(node, bold || node.Level >= 2)
			default:
				walk(c, bold)
			}
		}
	}
	walk(n, bold)
	return spans
}

// splitInlineLines returns one span line per source line of a paragraph,
// so a paragraph made of a single bold line stays a bold line.
func splitInlineLines(n ast.Node, src []byte) [][]layout.TextSpan {
	var (
		lines   [][]layout.TextSpan
		current []layout.TextSpan
	)
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, current)
			current = nil
		}
	}
	var walk func(ast.Node, bool)
	walk = func(n ast.Node, bold bool) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				current = append(current, styledSpan(string(node.Segment.Value(src)), bodyFontSize, bold))
				if node.SoftLineBreak() || node.HardLineBreak() {
					flush()
				}
			case *ast.Emphasis:
				walk(node, bold || node.Level >= 2)
			case *ast.CodeSpan:
				s := styledSpan(inlineText(node, src), bodyFontSize, bold)
				s.FontName = monoFont
				current = append(current, s)
			default:
				walk(c, bold)
			}
		}
	}
	walk(n, false)
	flush()
	return lines
}

// inlineText concatenates the text segments under a node.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return buf.String()
}
