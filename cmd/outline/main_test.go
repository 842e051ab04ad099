package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docoutline/internal/outline"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, in, "guide.md", "# Guide\n\nIntro.\n\n## Setup\n\nSteps.\n\n## Usage\n\nMore.\n")
	writeFile(t, in, "broken.pdf", "not a pdf")
	writeFile(t, in, "ignored.csv", "a,b")
	writeFile(t, in, "collection.json", `{"persona":{"role":"Engineer"},"job":{"task":"setup"}}`)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := options{
		inputDir:   in,
		outputDir:  out,
		workers:    2,
		collection: filepath.Join(in, "collection.json"),
	}
	failed, err := run(context.Background(), opts, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed document, got %d", failed)
	}

	data, err := os.ReadFile(filepath.Join(out, "guide.json"))
	if err != nil {
		t.Fatalf("read guide.json: %v", err)
	}
	var o outline.Outline
	if err := json.Unmarshal(data, &o); err != nil {
		t.Fatalf("decode guide.json: %v", err)
	}
	if o.Title != "Guide" || len(o.Entries) != 2 {
		t.Errorf("unexpected outline %+v", o)
	}
	if _, err := os.Stat(filepath.Join(out, "broken.json")); !os.IsNotExist(err) {
		t.Error("expected no output for the failed document")
	}

	data, err = os.ReadFile(filepath.Join(out, "collection.json"))
	if err != nil {
		t.Fatalf("read collection.json: %v", err)
	}
	var c struct {
		Persona   map[string]string `json:"persona"`
		Job       map[string]string `json:"job"`
		Documents []struct {
			Filename string             `json:"filename"`
			Sections *[]outline.Section `json:"sections"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("decode collection: %v", err)
	}
	if c.Persona["role"] != "Engineer" || c.Job["task"] != "setup" {
		t.Errorf("expected persona and job passed through, got %v %v", c.Persona, c.Job)
	}
	if len(c.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(c.Documents))
	}
	// Inputs are processed in name order.
	if c.Documents[0].Filename != "broken.pdf" || c.Documents[0].Sections != nil {
		t.Errorf("expected null sections for broken.pdf, got %+v", c.Documents[0])
	}
	if c.Documents[1].Sections == nil || len(*c.Documents[1].Sections) != 2 {
		t.Errorf("expected 2 sections for guide.md, got %+v", c.Documents[1])
	}
}

func TestRun_UnreadableFileDoesNotStopRun(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, in, "good.md", "# Good\n\n## Setup\n\nSteps.\n")
	if err := os.Symlink(filepath.Join(in, "missing.pdf"), filepath.Join(in, "dangling.pdf")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	failed, err := run(context.Background(), options{inputDir: in, outputDir: out, workers: 1}, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed document, got %d", failed)
	}
	if _, err := os.Stat(filepath.Join(out, "good.json")); err != nil {
		t.Errorf("expected good.json to be written: %v", err)
	}
}

func TestRun_WriteFailureCountsDocument(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "a.md", "# A\n\n## One\n")
	writeFile(t, in, "b.md", "# B\n\n## Two\n")
	if err := os.Mkdir(filepath.Join(out, "a.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	failed, err := run(context.Background(), options{inputDir: in, outputDir: out, workers: 1}, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed document, got %d", failed)
	}
	if _, err := os.Stat(filepath.Join(out, "b.json")); err != nil {
		t.Errorf("expected b.json to be written: %v", err)
	}
}

func TestRun_MissingInputDir(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := run(context.Background(), options{inputDir: filepath.Join(t.TempDir(), "nope"), outputDir: t.TempDir()}, log)
	if err == nil {
		t.Fatal("expected error for missing input dir")
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"report.pdf":     "report",
		"archive.tar.md": "archive.tar",
		"README":         "README",
	}
	for in, want := range tests {
		if got := stem(in); got != want {
			t.Errorf("stem(%q): expected %q, got %q", in, want, got)
		}
	}
}
