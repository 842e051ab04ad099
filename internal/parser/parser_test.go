package parser

import "testing"

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"a.pdf", false},
		{"A.PDF", false},
		{"notes.txt", false},
		{"readme.md", false},
		{"readme.markdown", false},
		{"page.html", false},
		{"page.htm", false},
		{"report.docx", false},
		{"data.csv", true},
		{"noext", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error=%v, got %v", tt.filename, tt.wantErr, err)
		}
		if !tt.wantErr && p == nil {
			t.Errorf("%s: expected a parser", tt.filename)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("%s: IsSupportedExtension disagrees with ForFile", tt.filename)
		}
	}
}

func TestForFile_PDFOptions(t *testing.T) {
	p, err := ForFile("x.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pp, ok := p.(*PDFParser)
	if !ok || !pp.FallbackPdftotext {
		t.Errorf("expected pdf parser with fallback enabled, got %#v", p)
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 2", 2},
		{"Heading6", 6},
		{"Heading7", 0},
		{"Heading10", 0},
		{"Normal", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := docxHeadingLevel(tt.style); got != tt.want {
			t.Errorf("docxHeadingLevel(%q): expected %d, got %d", tt.style, tt.want, got)
		}
	}
}
