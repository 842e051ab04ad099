package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const defaultListLimit = 200

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.docs == nil {
		jsonError(w, "document persistence is not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// handleListDocuments lists stored outlines.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	docs, err := s.docs.ListOutlines(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusBadGateway)
		return
	}

	summaries := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, map[string]any{
			"doc_id":     d.DocID,
			"filename":   d.Filename,
			"title":      d.Result.Title,
			"headings":   len(d.Result.Entries),
			"created_at": d.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": summaries})
}

// handleGetDocument returns one stored outline.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	docID := chi.URLParam(r, "docID")
	doc, err := s.docs.GetOutline(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to read document: "+err.Error(), http.StatusBadGateway)
		return
	}
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument removes a stored outline and its hash index entry.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	docID := chi.URLParam(r, "docID")
	deleted, err := s.docs.DeleteOutline(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusBadGateway)
		return
	}
	if !deleted {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}
