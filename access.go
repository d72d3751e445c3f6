package statetree

import (
	"context"
	"sort"

	"github.com/goliatone/go-statetree/pkg/audit"
)

// Read resolves path segment by segment from this node and returns the value
// at the terminal segment, or nil when the path is absent. Traversal through
// a node checks that node's read permission for the segment; traversal
// through plain composites is permission-free, and missing keys degrade
// silently to nil rather than failing. Producers stored on node fields are
// invoked on every traversal, including at intermediate segments. Read is a
// pure query: it performs no mutation.
func (t *Tree) Read(path string) (any, error) {
	value, _, err := t.Find(path)
	return value, err
}

// Find behaves like Read and additionally reports whether the terminal
// segment was present, so callers can tell a stored null from an absent
// field.
func (t *Tree) Find(path string) (any, bool, error) {
	if path == "" {
		return nil, false, ErrEmptyPath
	}
	var current any = t
	found := true
	for _, segment := range SplitPath(path) {
		switch holder := current.(type) {
		case *Tree:
			if holder == nil {
				current, found = nil, false
				continue
			}
			if !holder.AllowedToRead(segment) {
				t.emitDenied("read", path, segment)
				return nil, false, permissionDenied("read", path, segment)
			}
			next, ok := holder.valueOf(segment)
			current, found = resolveProducer(next), ok
		case map[string]any:
			current, found = holder[segment]
		default:
			current, found = nil, false
		}
	}
	if !found {
		return nil, false, nil
	}
	return current, true, nil
}

// Write assigns value at path, overwriting any prior value wholesale. The
// parent path resolves with full Read semantics; the terminal assignment
// requires write permission when the parent is a node and fails with
// ErrInvalidTarget when the parent cannot hold fields. Failure occurs before
// any mutation, so a failed write leaves the tree untouched. The value is
// returned unchanged so call sites can chain.
func (t *Tree) Write(path string, value any) (any, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	segments := SplitPath(path)
	last := segments[len(segments)-1]

	var parent any = t
	if len(segments) > 1 {
		resolved, err := t.Read(JoinPath(segments[:len(segments)-1]...))
		if err != nil {
			return nil, err
		}
		parent = resolved
	}

	switch holder := parent.(type) {
	case *Tree:
		if holder == nil {
			return nil, invalidTarget(path, last)
		}
		if !holder.AllowedToWrite(last) {
			t.emitDenied("write", path, last)
			return nil, permissionDenied("write", path, last)
		}
		holder.set(last, value)
	case map[string]any:
		holder[last] = value
	default:
		return nil, invalidTarget(path, last)
	}

	t.emitWrite(path, last, value)
	return value, nil
}

// WriteEntries bulk-writes a flat object of top-level fields, one
// independent Write per entry in sorted key order. It is not atomic: the
// first failure aborts the remaining entries and prior writes stay applied.
func (t *Tree) WriteEntries(entries map[string]any) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := t.Write(key, entries[key]); err != nil {
			return err
		}
	}
	return nil
}

// Entries produces a depth-first, permission-filtered snapshot of the node.
// Unreadable fields are omitted without error; nested nodes substitute their
// own Entries output, applying their own permissions. Producers are emitted
// as raw function references, not invoked; only Read resolves them.
func (t *Tree) Entries() map[string]any {
	out := make(map[string]any, len(t.names))
	for _, name := range t.names {
		if !t.AllowedToRead(name) {
			continue
		}
		value := t.fields[name]
		if node, ok := value.(*Tree); ok && node != nil {
			out[name] = node.Entries()
			continue
		}
		out[name] = value
	}
	return out
}

func (t *Tree) emitWrite(path, field string, value any) {
	if !t.cfg.auditHooks.Enabled() {
		return
	}
	event := audit.BuildWriteEvent(audit.EventInput{
		Path:  path,
		Field: field,
		Value: value,
	})
	_ = t.cfg.auditHooks.Notify(context.Background(), event)
}

func (t *Tree) emitDenied(op, path, field string) {
	if !t.cfg.auditHooks.Enabled() {
		return
	}
	event := audit.BuildDeniedEvent(audit.EventInput{
		Op:    op,
		Path:  path,
		Field: field,
	})
	_ = t.cfg.auditHooks.Notify(context.Background(), event)
}
