package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultPageHeight = 792.0
	rowTolerance      = 2.0 // max baseline drift for glyphs on one line
	wordGapFactor     = 0.3 // horizontal gap, as a fraction of font size, that separates words

	fontFlagForceBold = 1 << 18
	boldFontWeight    = 700
)

// PDFParser handles PDF files. It lays out glyphs with the Go library and
// can fall back to pdftotext, which loses all font information.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	doc, err := layoutPDF(data, filename)
	if err != nil && p.FallbackPdftotext {
		doc, err = layoutPdftotext(data, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf layout: %w", err)
	}
	return doc, nil
}

func layoutPDF(data []byte, filename string) (doc *layout.Document, err error) {
	// The PDF library panics on some malformed objects.
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	doc = &layout.Document{
		Filename:      filename,
		MetadataTitle: strings.TrimSpace(norm.NFKC.String(reader.Trailer().Key("Info").Key("Title").Text())),
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pg := layout.Page{Number: i, Height: defaultPageHeight}
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, pg)
			continue
		}
		pg.Height = pageHeight(page.V)
		pg.Lines = pageLines(page.Content().Text, pg.Height, i, boldFonts(page))
		doc.Pages = append(doc.Pages, pg)
	}
	return doc, nil
}

// pageHeight reads the MediaBox, walking up to inherited values.
func pageHeight(v pdflib.Value) float64 {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := math.Abs(box.Index(3).Float64() - box.Index(1).Float64()); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}

// boldFonts returns the base font names the page's font descriptors mark
// as bold through ForceBold or a heavy FontWeight.
func boldFonts(page pdflib.Page) map[string]bool {
	bold := make(map[string]bool)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		desc := f.V.Key("FontDescriptor")
		if desc.IsNull() {
			continue
		}
		if desc.Key("Flags").Int64()&fontFlagForceBold == 0 && desc.Key("FontWeight").Float64() < boldFontWeight {
			continue
		}
		base := f.BaseFont()
		bold[base] = true
		bold[stripSubset(base)] = true
	}
	return bold
}

// stripSubset removes a subset tag such as "ABCDEF+" from a font name.
func stripSubset(name string) string {
	if i := strings.IndexByte(name, '+'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// pageLines groups glyphs into lines by baseline and into spans by font.
// A space is inserted where the horizontal gap exceeds a fraction of the
// font size.
func pageLines(texts []pdflib.Text, height float64, number int, bold map[string]bool) []layout.Line {
	var (
		lines   []layout.Line
		lineY   float64
		lastEnd float64
	)
	for _, t := range texts {
		if t.S == "" || t.S == "\n" || t.S == "\r" {
			continue
		}
		s := norm.NFKC.String(t.S)

		if len(lines) == 0 || math.Abs(t.Y-lineY) > rowTolerance {
			lines = append(lines, layout.Line{})
			lineY = t.Y
			lastEnd = t.X
		}
		line := &lines[len(lines)-1]
		spaced := len(line.Spans) > 0 && t.X-lastEnd > wordGapFactor*t.FontSize
		lastEnd = t.X + t.W

		if n := len(line.Spans); n > 0 {
			last := &line.Spans[n-1]
			if last.FontName == stripSubset(t.Font) && last.FontSize == t.FontSize {
				if spaced && !strings.HasSuffix(last.Text, " ") && !strings.HasPrefix(s, " ") {
					last.Text += " "
				}
				last.Text += s
				continue
			}
			if spaced && !strings.HasSuffix(last.Text, " ") && !strings.HasPrefix(s, " ") {
				s = " " + s
			}
		}

		span := layout.TextSpan{
			Text:       s,
			FontSize:   t.FontSize,
			FontName:   stripSubset(t.Font),
			Top:        math.Max(0, height-(t.Y+t.FontSize)),
			PageHeight: height,
			Page:       number,
		}
		if bold[t.Font] || bold[span.FontName] {
			span.Flags |= layout.FlagBold
		}
		line.Spans = append(line.Spans, span)
	}
	return lines
}

// layoutPdftotext lays out pdftotext output as uniform body text, one
// page per form feed.
func layoutPdftotext(data []byte, filename string) (*layout.Document, error) {
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.Command("pdftotext", "-layout", tmpPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	doc := plainPages(string(out), filename)
	doc.MetadataTitle = firstLine(doc)
	return doc, nil
}

// plainPages splits text on form feeds, keeping physical page numbers.
func plainPages(text, filename string) *layout.Document {
	doc := &layout.Document{Filename: filename}
	lineHeight := bodyFontSize * lineAdvance
	pages := strings.Split(strings.TrimSuffix(text, "\f"), "\f")
	for i, raw := range pages {
		pg := layout.Page{Number: i + 1, Height: defaultPageHeight}
		rows := strings.Split(raw, "\n")
		if h := float64(len(rows)) * lineHeight; h > pg.Height {
			pg.Height = h
		}
		for j, row := range rows {
			if strings.TrimSpace(row) == "" {
				continue
			}
			s := bodySpan(strings.TrimSpace(row))
			s.FontName = monoFont
			s.Top = float64(j) * lineHeight
			s.PageHeight = pg.Height
			s.Page = pg.Number
			pg.Lines = append(pg.Lines, layout.Line{Spans: []layout.TextSpan{s}})
		}
		doc.Pages = append(doc.Pages, pg)
	}
	return doc
}
