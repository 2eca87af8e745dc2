// Package docstore is a small hierarchical document store: documents live at
// paths of alternating collection and document ids
// ("route_codes/1_HKI/routes/2004791_1") and are written in atomic batches.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a decoded document body.
type Document map[string]any

// Decode copies the document into out, which should be a pointer to a struct
// with json tags.
func (d Document) Decode(out any) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("docstore: encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("docstore: decode document: %w", err)
	}
	return nil
}

// GeoPoint is stored as {"latitude": .., "longitude": ..}.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Store persists documents.
type Store interface {
	// Batch starts an empty write batch.
	Batch() Batch
	// Get returns the document at path or ErrNotFound.
	Get(ctx context.Context, path Path) (Document, error)
	// List returns the documents of a collection keyed by document id.
	List(ctx context.Context, collection string) (map[string]Document, error)
	// Count returns the total number of stored documents.
	Count(ctx context.Context) (int, error)
	Close() error
}

// Batch accumulates writes that are committed together or not at all.
type Batch interface {
	// Set replaces the whole document at path.
	Set(path Path, data any)
	// Merge applies data as a JSON merge patch (RFC 7396) onto the document at
	// path, creating it when missing. Arrays are replaced, not appended to.
	Merge(path Path, data any)
	// Len returns the number of queued writes.
	Len() int
	Commit(ctx context.Context) error
}

type opKind int

const (
	opSet opKind = iota
	opMerge
)

func (k opKind) String() string {
	if k == opMerge {
		return "merge"
	}
	return "set"
}

type op struct {
	kind opKind
	path Path
	data any
}

// writeSet is the queue shared by both batch implementations.
type writeSet struct {
	ops []op
}

func (w *writeSet) Set(path Path, data any) {
	w.ops = append(w.ops, op{kind: opSet, path: path, data: data})
}

func (w *writeSet) Merge(path Path, data any) {
	w.ops = append(w.ops, op{kind: opMerge, path: path, data: data})
}

func (w *writeSet) Len() int {
	return len(w.ops)
}

type encodedOp struct {
	kind opKind
	path Path
	body []byte
}

// encode validates every queued write before anything touches the backend.
func (w *writeSet) encode() ([]encodedOp, error) {
	out := make([]encodedOp, 0, len(w.ops))
	for _, o := range w.ops {
		if err := o.path.Validate(); err != nil {
			return nil, err
		}
		body, err := json.Marshal(o.data)
		if err != nil {
			return nil, fmt.Errorf("docstore: encode %s %s: %w", o.kind, o.path, err)
		}
		if len(body) == 0 || body[0] != '{' {
			return nil, fmt.Errorf("docstore: %s %s: document must be a JSON object", o.kind, o.path)
		}
		out = append(out, encodedOp{kind: o.kind, path: o.path, body: body})
	}
	return out, nil
}
