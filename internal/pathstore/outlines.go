package pathstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
)

const (
	docsPrefix = "outlines/docs"
	hashPrefix = "outlines/by_hash"
)

// StoredOutline is the value kept for each extracted document.
type StoredOutline struct {
	DocID       string           `json:"doc_id"`
	Filename    string           `json:"filename"`
	ContentHash string           `json:"content_hash"`
	CreatedAt   time.Time        `json:"created_at"`
	Result      *outline.Outline `json:"result"`
}

// DocKey is the node path of a stored outline.
func DocKey(docID string) string {
	return docsPrefix + "/" + docID
}

// HashKey is the node path of the content-hash index entry.
func HashKey(contentHash string) string {
	return hashPrefix + "/" + contentHash
}

// DecodeOutline converts a node value back into a StoredOutline.
func DecodeOutline(value any) (*StoredOutline, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("re-encode node value: %w", err)
	}
	var so StoredOutline
	if err := json.Unmarshal(data, &so); err != nil {
		return nil, fmt.Errorf("decode stored outline: %w", err)
	}
	if so.Result == nil {
		return nil, fmt.Errorf("stored outline %s has no result", so.DocID)
	}
	return &so, nil
}

// PutOutline writes the outline node and then its content-hash index entry.
func (c *Client) PutOutline(ctx context.Context, so *StoredOutline) error {
	source := "docoutline:" + so.DocID
	if err := c.PutNode(ctx, DocKey(so.DocID), NodeRequest{Value: so, Source: source}); err != nil {
		return fmt.Errorf("put outline %s: %w", so.DocID, err)
	}
	if so.ContentHash == "" {
		return nil
	}
	err := c.PutNode(ctx, HashKey(so.ContentHash), NodeRequest{
		Value:  map[string]any{"doc_id": so.DocID, "filename": so.Filename},
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("put hash index %s: %w", so.ContentHash, err)
	}
	return nil
}

// GetOutline fetches a stored outline by document ID. A missing document
// returns nil, nil.
func (c *Client) GetOutline(ctx context.Context, docID string) (*StoredOutline, error) {
	node, err := c.GetNode(ctx, DocKey(docID))
	if err != nil || node == nil {
		return nil, err
	}
	return DecodeOutline(node.Value)
}

// LookupHash returns the document ID indexed under a content hash, or ""
// when the hash is unknown.
func (c *Client) LookupHash(ctx context.Context, contentHash string) (string, error) {
	node, err := c.GetNode(ctx, HashKey(contentHash))
	if err != nil || node == nil {
		return "", err
	}
	m, ok := node.Value.(map[string]any)
	if !ok {
		return "", nil
	}
	docID, _ := m["doc_id"].(string)
	return docID, nil
}

// ListOutlines returns every stored outline.
func (c *Client) ListOutlines(ctx context.Context, limit int) ([]*StoredOutline, error) {
	children, err := c.ListChildren(ctx, docsPrefix, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*StoredOutline, 0, len(children))
	for _, child := range children {
		so, err := DecodeOutline(child.Value)
		if err != nil {
			continue
		}
		out = append(out, so)
	}
	return out, nil
}

// DeleteOutline removes a stored outline and its hash index entry.
func (c *Client) DeleteOutline(ctx context.Context, docID string) (bool, error) {
	so, err := c.GetOutline(ctx, docID)
	if err != nil {
		return false, err
	}
	if so == nil {
		return false, nil
	}
	if err := c.DeleteNode(ctx, DocKey(docID)); err != nil {
		return false, err
	}
	if so.ContentHash != "" {
		// Best effort: a stale index entry is ignored by the cache lookup.
		_ = c.DeleteNode(ctx, HashKey(so.ContentHash))
	}
	return true, nil
}
