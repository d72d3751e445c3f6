package statetree

import "strings"

// Separator delimits path segments. Field names must not contain it; no
// escaping mechanism exists, so a name containing the separator is silently
// misparsed.
const Separator = ":"

// SplitPath breaks a path into its field-name segments.
func SplitPath(path string) []string {
	return strings.Split(path, Separator)
}

// JoinPath composes segments into a path.
func JoinPath(segments ...string) string {
	return strings.Join(segments, Separator)
}
