// Package snapshot defines persistence-facing contracts for loading and
// saving tree entry snapshots, plus a small restorer that layers loaded
// snapshots and hydrates them into a permission tree. The core statetree
// package stays persistence-agnostic; all storage logic lives behind Store
// implementations supplied by consumers.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	statetree "github.com/goliatone/go-statetree"
	"github.com/goliatone/go-statetree/layering"
)

var ErrETagMismatch = errors.New("snapshot: etag mismatch")

// Ref identifies one persisted snapshot for one tree domain.
type Ref struct {
	Domain string
	Layer  string
}

// Identifier returns a deterministic storage key for the reference.
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("snapshot: domain is required")
	}
	if r.Layer == "" {
		return "", fmt.Errorf("snapshot: layer is required")
	}
	return fmt.Sprintf("%s/%s", r.Layer, r.Domain), nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one entry snapshot for a single reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (entries map[string]any, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, entries map[string]any, meta Meta) (Meta, error)
}

// Restorer orchestrates layered snapshot loads and hydrates them into trees.
type Restorer struct {
	Store Store
}

// Restore loads the referenced snapshots in order from strongest to weakest,
// merges them, and bulk-writes the result into a new tree constructed with
// opts. The bulk write runs through the permission-checked WriteEntries
// path, so a declaration forbidding writes on a field rejects restoration of
// that field.
func (r Restorer) Restore(ctx context.Context, refs []Ref, opts ...statetree.Option) (*statetree.Tree, error) {
	if r.Store == nil {
		return nil, fmt.Errorf("snapshot: store is required")
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("snapshot: at least one ref is required")
	}

	found := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		entries, _, ok, err := r.Store.Load(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("snapshot: load %q layer %q: %w", ref.Domain, ref.Layer, err)
		}
		if !ok {
			continue
		}
		found = append(found, entries)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("snapshot: no snapshots found for %q", refs[0].Domain)
	}

	merged := layering.MergeEntries(found...)
	return statetree.Load(merged, opts...)
}

// Capture saves the tree's permission-filtered snapshot under ref. When both
// the supplied and stored metadata carry an ETag, a mismatch aborts with
// ErrETagMismatch before anything is written.
func (r Restorer) Capture(ctx context.Context, ref Ref, tree *statetree.Tree, meta Meta) (Meta, error) {
	if r.Store == nil {
		return Meta{}, fmt.Errorf("snapshot: store is required")
	}
	if tree == nil {
		return Meta{}, fmt.Errorf("snapshot: tree is required")
	}

	_, stored, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: load %q layer %q: %w", ref.Domain, ref.Layer, err)
	}
	if ok && meta.ETag != "" && stored.ETag != "" && meta.ETag != stored.ETag {
		return stored, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, stored.ETag)
	}

	saved, err := r.Store.Save(ctx, ref, tree.Entries(), meta)
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: save %q layer %q: %w", ref.Domain, ref.Layer, err)
	}
	return saved, nil
}
