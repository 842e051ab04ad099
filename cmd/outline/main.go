// Command outline extracts the title and heading outline of every
// supported document in a directory and writes one JSON file per document.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

type options struct {
	inputDir         string
	outputDir        string
	workers          int
	collection       string
	collectionOutput string
	pdftotext        bool
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	var opts options
	flag.StringVar(&opts.inputDir, "input-dir", "input", "Directory of documents to outline")
	flag.StringVar(&opts.outputDir, "output-dir", "output", "Directory for per-document JSON outlines")
	flag.IntVar(&opts.workers, "workers", cfg.WorkerCount, "Number of documents processed concurrently")
	flag.StringVar(&opts.collection, "collection", "", "Collection input JSON with persona and job; enables the aggregate output")
	flag.StringVar(&opts.collectionOutput, "collection-output", "", "Aggregate output path (default <output-dir>/collection.json)")
	flag.BoolVar(&opts.pdftotext, "pdftotext", cfg.PDFFallbackPdftotext, "Fall back to pdftotext when a PDF cannot be decoded")
	flag.Parse()

	failed, err := run(context.Background(), opts, log)
	if err != nil {
		log.Error("outline run failed", "error", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// run outlines every supported file in the input directory and returns the
// number of documents that failed.
func run(ctx context.Context, opts options, log *slog.Logger) (int, error) {
	files, err := listInputs(opts.inputDir)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	results := make([]pipeline.Result, len(files))
	inputs := make([]pipeline.Input, 0, len(files))
	slots := make([]int, 0, len(files))
	for i, name := range files {
		data, err := os.ReadFile(filepath.Join(opts.inputDir, name))
		if err != nil {
			log.Error("read failed", "filename", name, "error", err)
			results[i] = pipeline.Result{Filename: name, Err: err}
			continue
		}
		inputs = append(inputs, pipeline.Input{Filename: name, Data: data})
		slots = append(slots, i)
	}

	w := pipeline.NewWorker(nil, nil, log, parser.Options{PDFFallbackPdftotext: opts.pdftotext})
	for j, res := range w.ExtractAll(ctx, inputs, opts.workers) {
		results[slots[j]] = res
	}

	failed := 0
	docs := make([]outline.DocumentSections, 0, len(results))
	for _, res := range results {
		if res.Err == nil {
			out := filepath.Join(opts.outputDir, stem(res.Filename)+".json")
			if res.Err = writeJSON(out, res.Outline); res.Err != nil {
				log.Error("write failed", "filename", res.Filename, "error", res.Err)
			}
		}
		if res.Err != nil {
			failed++
			docs = append(docs, outline.Sections(res.Filename, nil))
			continue
		}
		docs = append(docs, outline.Sections(res.Filename, res.Outline))
	}
	log.Info(fmt.Sprintf("processed %d/%d files", len(results)-failed, len(results)),
		"input_dir", opts.inputDir, "output_dir", opts.outputDir, "failed", failed)

	if opts.collection != "" {
		if err := writeCollection(opts, docs); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

// listInputs returns the supported files of dir in name order.
func listInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// writeCollection reads persona and job from the collection input and
// writes the aggregate of all documents.
func writeCollection(opts options, docs []outline.DocumentSections) error {
	data, err := os.ReadFile(opts.collection)
	if err != nil {
		return fmt.Errorf("read collection input: %w", err)
	}
	var in map[string]json.RawMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode collection input: %w", err)
	}

	out := opts.collectionOutput
	if out == "" {
		out = filepath.Join(opts.outputDir, "collection.json")
	}
	return writeJSON(out, outline.NewCollection(in["persona"], in["job"], docs))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
