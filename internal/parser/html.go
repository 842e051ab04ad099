package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. h1-h6 become font sizes, b and strong
// become bold, and <title> is the metadata title.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	f := newFlow(filename)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if spans := htmlSpans(n, headingSize(level), true); len(spans) > 0 {
					f.addLine(spans...)
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "hr":
				f.breakPage()
				return
			case "p", "li", "td", "th", "blockquote", "dt", "dd", "caption", "figcaption":
				if spans := htmlSpans(n, bodyFontSize, false); len(spans) > 0 {
					f.addLine(spans...)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	doc := f.document()
	doc.MetadataTitle = findTitle(root)
	return doc, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// htmlSpans turns the text nodes under n into spans, one per text node.
// Whitespace runs collapse the way a browser renders them.
func htmlSpans(n *html.Node, size float64, bold bool) []layout.TextSpan {
	var spans []layout.TextSpan
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, bold bool) {
		switch {
		case n.Type == html.TextNode:
			t := strings.Join(strings.Fields(n.Data), " ")
			if t == "" {
				return
			}
			if len(spans) > 0 && startsWithSpace(n.Data) {
				t = " " + t
			}
			if endsWithSpace(n.Data) {
				t += " "
			}
			spans = append(spans, styledSpan(t, size, bold))
			return
		case n.Type == html.ElementNode && (n.Data == "b" || n.Data == "strong"):
			bold = true
		case n.Type == html.ElementNode && n.Data == "br":
			spans = append(spans, styledSpan(" ", size, bold))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, bold)
		}
	}
	walk(n, bold)
	return spans
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n") != s
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
