package statetree

import (
	"fmt"

	"github.com/goliatone/go-statetree/internal/hydrate"
)

// HydrateOption configures snapshot hydration.
type HydrateOption[T any] = hydrate.DecoderOption[T]

// Hydrate decodes the tree's permission-filtered snapshot into a typed
// struct via a JSON round trip. Producer fields are resolved before decoding
// since raw function references are not JSON-serialisable.
func Hydrate[T any](t *Tree, opts ...HydrateOption[T]) (T, error) {
	decoder := hydrate.NewDecoder(opts...)
	return decoder.Decode(hydrate.Context{}, resolveEntries(t.Entries()))
}

// HydratePath reads the node at path and decodes its snapshot. The target
// must resolve to a nested tree node or a plain object.
func HydratePath[T any](t *Tree, path string, opts ...HydrateOption[T]) (T, error) {
	var zero T
	value, err := t.Read(path)
	if err != nil {
		return zero, err
	}
	var snapshot map[string]any
	switch resolved := value.(type) {
	case *Tree:
		snapshot = resolved.Entries()
	case map[string]any:
		snapshot = resolved
	default:
		return zero, fmt.Errorf("statetree: hydrate path %q does not resolve to an object", path)
	}
	decoder := hydrate.NewDecoder(opts...)
	return decoder.Decode(hydrate.Context{Path: path}, resolveEntries(snapshot))
}

// resolveEntries returns a copy of entries with producer values invoked,
// recursively through nested objects and arrays.
func resolveEntries(entries map[string]any) map[string]any {
	out := make(map[string]any, len(entries))
	for key, value := range entries {
		out[key] = resolveValue(value)
	}
	return out
}

func resolveValue(value any) any {
	switch resolved := resolveProducer(value).(type) {
	case map[string]any:
		return resolveEntries(resolved)
	case []any:
		out := make([]any, len(resolved))
		for i, element := range resolved {
			out[i] = resolveValue(element)
		}
		return out
	default:
		return resolved
	}
}
