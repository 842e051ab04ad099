package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

var (
	// ErrUnsupportedFormat is returned for files no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnreadable is returned when a document cannot be laid out.
	ErrUnreadable = errors.New("document unreadable")
)

// OutlineStore persists extracted outlines. *pathstore.Client satisfies it.
type OutlineStore interface {
	LookupHash(ctx context.Context, contentHash string) (string, error)
	GetOutline(ctx context.Context, docID string) (*pathstore.StoredOutline, error)
	PutOutline(ctx context.Context, so *pathstore.StoredOutline) error
}

// Input is one document to outline.
type Input struct {
	Filename string
	Title    string // overrides the document's own metadata title when set
	Data     []byte
}

// Result is the outcome for one document of a batch.
type Result struct {
	Filename string
	Outline  *outline.Outline
	Err      error
}

// Worker turns documents into outlines.
type Worker struct {
	store OutlineStore // nil disables persistence and dedup
	stats *Stats
	log   *slog.Logger
	opts  parser.Options

	backoff func(attempt int) time.Duration
}

func NewWorker(store OutlineStore, stats *Stats, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		store:   store,
		stats:   stats,
		log:     log,
		opts:    opts,
		backoff: Backoff,
	}
}

// Extract outlines a single document synchronously.
func (w *Worker) Extract(in Input) (*outline.Outline, error) {
	start := time.Now()
	doc, err := w.parse(in)
	if err != nil {
		return nil, err
	}
	o := outline.Extract(doc)
	w.record(start, doc)
	return o, nil
}

// ExtractAll outlines documents with bounded concurrency. Results keep the
// order of inputs and a failed document never affects its siblings.
func (w *Worker) ExtractAll(ctx context.Context, inputs []Input, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]Result, len(inputs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, in := range inputs {
		results[i].Filename = in.Filename
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		}
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			defer func() { <-sem }()
			o, err := w.Extract(in)
			if err != nil {
				w.log.Error("outline failed", "filename", in.Filename, "error", err)
				results[i].Err = err
				return
			}
			w.log.Info("processed document", "filename", in.Filename, "title", o.Title, "headings", len(o.Entries))
			results[i].Outline = o
		}(i, in)
	}
	wg.Wait()
	return results
}

// Process runs the full outline pipeline for a queued job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Dedup: reuse a stored outline for identical content.
	if w.store != nil {
		if cached, err := w.cachedOutline(ctx, job.ContentHash); err != nil {
			log.Warn("dedup lookup failed, proceeding", "error", err)
		} else if cached != nil {
			log.Info("duplicate document, reusing stored outline", "existing_doc_id", cached.DocID)
			job.SetResult(cached.Result)
			job.SetStatus(StatusCached, "done")
			return
		}
	}

	start := time.Now()
	job.SetStatus(StatusParsing, "parsing")
	doc, err := w.parse(Input{Filename: job.Filename, Title: job.Title, Data: job.FileData()})
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.SetStatus(StatusClassifying, "classifying")
	o := outline.Extract(doc)
	w.record(start, doc)
	log.Info("processed document", "title", o.Title, "headings", len(o.Entries), "pages", doc.PageCount())

	if w.store != nil {
		job.SetStatus(StatusStoring, "storing")
		so := &pathstore.StoredOutline{
			DocID:       job.DocID,
			Filename:    job.Filename,
			ContentHash: job.ContentHash,
			CreatedAt:   job.CreatedAt,
			Result:      o,
		}
		if err := w.putWithRetry(ctx, log, so); err != nil {
			// The outline is still served from the job.
			log.Error("store failed", "error", err)
			job.AddError(fmt.Sprintf("store: %s", err))
		}
	}

	job.SetResult(o)
	job.SetStatus(StatusCompleted, "done")
}

// parse lays out raw input as the span model.
func (w *Worker) parse(in Input) (*layout.Document, error) {
	p, err := parser.ForFile(in.Filename, w.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	doc, err := p.Parse(bytes.NewReader(in.Data), in.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if in.Title != "" {
		doc.MetadataTitle = in.Title
	}
	return doc, nil
}

func (w *Worker) record(start time.Time, doc *layout.Document) {
	if w.stats != nil {
		w.stats.Record(time.Since(start).Milliseconds(), doc.PageCount())
	}
}

// cachedOutline returns the stored outline for a content hash, or nil.
func (w *Worker) cachedOutline(ctx context.Context, contentHash string) (*pathstore.StoredOutline, error) {
	docID, err := w.store.LookupHash(ctx, contentHash)
	if err != nil || docID == "" {
		return nil, err
	}
	return w.store.GetOutline(ctx, docID)
}

func (w *Worker) putWithRetry(ctx context.Context, log *slog.Logger, so *pathstore.StoredOutline) error {
	return withRetry(ctx, w.backoff,
		func(attempt int, err error) {
			log.Warn("retryable store error", "attempt", attempt, "error", err)
		},
		func() error { return w.store.PutOutline(ctx, so) },
	)
}
