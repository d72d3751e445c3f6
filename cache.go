package statetree

// ProgramCache stores compiled expression programs keyed by expression
// strings. Implementations shared between trees must be safe for concurrent
// use.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
