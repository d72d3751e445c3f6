package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-statetree/layering"
	"github.com/google/uuid"
)

// MemoryStore is a minimal in-memory Store implementation intended for tests
// and examples. It uses Ref.Identifier() as its deterministic key and makes
// no persistence assumptions beyond that.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	entries map[string]any
	meta    Meta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) (map[string]any, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return layering.CloneEntries(record.entries), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(_ context.Context, ref Ref, entries map[string]any, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	if meta.SnapshotID == "" {
		meta.SnapshotID = uuid.NewString()
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	s.records[key] = memoryRecord{
		entries: layering.CloneEntries(entries),
		meta:    cloneMeta(meta),
	}
	s.mu.Unlock()
	return cloneMeta(meta), nil
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
