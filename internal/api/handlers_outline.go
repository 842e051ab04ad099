package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

var errTooLarge = errors.New("file too large")

// formOverhead is the request size allowed beyond the file payload.
const formOverhead = 1 << 20

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	if !s.parseUploadForm(w, r, s.cfg.MaxUploadBytes+formOverhead) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := s.readUpload(file)
	if errors.Is(err, errTooLarge) {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	o, err := s.orchestrator.Worker().Extract(pipeline.Input{
		Filename: filename,
		Title:    r.FormValue("title"),
		Data:     data,
	})
	if err != nil {
		s.log.Error("outline failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), extractStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleSubmitJobs(w http.ResponseWriter, r *http.Request) {
	if !s.parseUploadForm(w, r, s.batchBodyLimit()) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if !s.checkBatch(w, files) {
		return
	}
	// A title override names one document, so batches always resolve
	// titles from content.
	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		data, err := s.readFileHeader(fh)
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "file too large or read error",
			})
			continue
		}

		job := pipeline.NewJob(filename, "", data)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"job_id":   job.ID,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"doc_id":   job.DocID,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/api/outline/jobs/%s", job.ID),
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// handleSections outlines every uploaded file and aggregates the leading
// headings of each into a collection.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	if !s.parseUploadForm(w, r, s.batchBodyLimit()) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if !s.checkBatch(w, files) {
		return
	}

	docs := make([]outline.DocumentSections, len(files))
	inputs := make([]pipeline.Input, 0, len(files))
	slots := make([]int, 0, len(files))
	for i, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		docs[i] = outline.Sections(filename, nil)
		data, err := s.readFileHeader(fh)
		if err != nil {
			s.log.Warn("skipping upload", "filename", filename, "error", err)
			continue
		}
		inputs = append(inputs, pipeline.Input{Filename: filename, Data: data})
		slots = append(slots, i)
	}

	results := s.orchestrator.Worker().ExtractAll(r.Context(), inputs, s.cfg.WorkerCount)
	for j, res := range results {
		if res.Err == nil {
			docs[slots[j]] = outline.Sections(res.Filename, res.Outline)
		}
	}

	collection := outline.NewCollection(rawJSONField(r.FormValue("persona")), rawJSONField(r.FormValue("job")), docs)
	writeJSON(w, http.StatusOK, collection)
}

// parseUploadForm limits the body and parses the multipart form, writing
// the error response itself when it fails.
func (s *Server) parseUploadForm(w http.ResponseWriter, r *http.Request, limit int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) checkBatch(w http.ResponseWriter, files []*multipart.FileHeader) bool {
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return false
	}
	if len(files) > s.cfg.MaxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", s.cfg.MaxBatchFiles), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) batchBodyLimit() int64 {
	return s.cfg.MaxUploadBytes*int64(s.cfg.MaxBatchFiles) + 10*formOverhead
}

func (s *Server) readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.readUpload(f)
}

func (s *Server) readUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, errTooLarge
	}
	return data, nil
}

// extractStatus maps an extraction error to an HTTP status.
func extractStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrUnreadable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// rawJSONField passes a form value through verbatim when it is JSON and
// quotes it as a JSON string otherwise.
func rawJSONField(v string) json.RawMessage {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if json.Valid([]byte(v)) {
		return json.RawMessage(v)
	}
	quoted, _ := json.Marshal(v)
	return quoted
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
