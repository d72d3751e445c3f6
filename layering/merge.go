// Package layering composes entry snapshots captured from permission trees.
// Layers are ordered strongest to weakest: explicit settings in stronger
// layers win, and weaker layers fill any missing fields.
package layering

// MergeEntries merges snapshots ordered strongest to weakest into a new map.
// Nested objects merge recursively; any other value in a stronger layer
// replaces the weaker one wholesale, arrays included. Inputs are never
// mutated.
func MergeEntries(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return map[string]any{}
	}

	merged := CloneEntries(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeEntry(layers[i], merged)
	}
	return merged
}

func mergeEntry(strong, weak map[string]any) map[string]any {
	out := CloneEntries(weak)
	for key, value := range strong {
		existing, ok := out[key]
		strongMap, strongIsMap := value.(map[string]any)
		weakMap, weakIsMap := existing.(map[string]any)
		if ok && strongIsMap && weakIsMap {
			out[key] = mergeEntry(strongMap, weakMap)
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

// CloneEntries deep-copies a snapshot so callers can mutate the result
// without affecting the source.
func CloneEntries(entries map[string]any) map[string]any {
	out := make(map[string]any, len(entries))
	for key, value := range entries {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneEntries(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, element := range typed {
			clone[i] = cloneValue(element)
		}
		return clone
	default:
		return value
	}
}
