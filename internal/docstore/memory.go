package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

var _ Store = (*Memory)(nil)

// Memory keeps documents in a map. Batches are validated in full and then
// applied under one lock, so readers never observe half a batch.
type Memory struct {
	mu   sync.RWMutex
	docs map[Path]map[string]any
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[Path]map[string]any)}
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

func (m *Memory) Get(_ context.Context, path Path) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return cloneDocument(doc), nil
}

func (m *Memory) List(_ context.Context, collection string) (map[string]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Document)
	for p, doc := range m.docs {
		if p.Collection() == collection {
			out[p.ID()] = cloneDocument(doc)
		}
	}
	return out, nil
}

func (m *Memory) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

// Paths returns every stored path, sorted. Handy for dumps and tests.
func (m *Memory) Paths() []Path {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]Path, 0, len(m.docs))
	for p := range m.docs {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

func (m *Memory) Close() error {
	return nil
}

type memoryBatch struct {
	writeSet
	store *Memory
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := b.encode()
	if err != nil {
		return err
	}
	decoded := make([]map[string]any, len(encoded))
	for i, e := range encoded {
		if err := json.Unmarshal(e.body, &decoded[i]); err != nil {
			return fmt.Errorf("docstore: decode %s %s: %w", e.kind, e.path, err)
		}
	}

	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for i, e := range encoded {
		switch e.kind {
		case opSet:
			b.store.docs[e.path] = decoded[i]
		case opMerge:
			current := b.store.docs[e.path]
			merged, _ := mergePatch(current, decoded[i]).(map[string]any)
			b.store.docs[e.path] = merged
		}
	}
	return nil
}

// mergePatch implements RFC 7396, which is what JSON_MERGE_PATCH does on the
// MySQL side: objects merge recursively, null deletes, anything else replaces.
func mergePatch(target, patch any) any {
	patchObj, ok := patch.(map[string]any)
	if !ok {
		return patch
	}
	targetObj, ok := target.(map[string]any)
	if !ok || targetObj == nil {
		targetObj = make(map[string]any, len(patchObj))
	} else {
		targetObj = cloneMap(targetObj)
	}
	for k, v := range patchObj {
		if v == nil {
			delete(targetObj, k)
			continue
		}
		targetObj[k] = mergePatch(targetObj[k], v)
	}
	return targetObj
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// cloneDocument deep-copies through JSON so callers cannot mutate stored state.
func cloneDocument(in map[string]any) Document {
	raw, _ := json.Marshal(in)
	var out Document
	_ = json.Unmarshal(raw, &out)
	return out
}
