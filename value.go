package statetree

// Producer is a zero-argument function stored as a field value. Read resolves
// producers transparently, substituting their return value; Entries does not
// (it emits the function reference as-is).
type Producer func() any

// Kind tags the variant a field value belongs to.
type Kind int

const (
	// KindPrimitive covers JSON primitives (string, number, boolean, null).
	KindPrimitive Kind = iota
	// KindComposite covers plain JSON objects and arrays, which are opaque
	// to permission checks.
	KindComposite
	// KindNode marks a nested tree node that applies its own permissions.
	KindNode
	// KindProducer marks a zero-argument producer function.
	KindProducer
)

func (k Kind) String() string {
	switch k {
	case KindComposite:
		return "composite"
	case KindNode:
		return "node"
	case KindProducer:
		return "producer"
	default:
		return "primitive"
	}
}

// KindOf reports the variant of a stored field value.
func KindOf(value any) Kind {
	switch value.(type) {
	case *Tree:
		return KindNode
	case Producer, func() any:
		return KindProducer
	case map[string]any, []any:
		return KindComposite
	default:
		return KindPrimitive
	}
}

// resolveProducer invokes value when it is a producer, otherwise returns it
// unchanged. Each call re-invokes the producer; results are never cached.
func resolveProducer(value any) any {
	switch fn := value.(type) {
	case Producer:
		if fn == nil {
			return nil
		}
		return fn()
	case func() any:
		if fn == nil {
			return nil
		}
		return fn()
	default:
		return value
	}
}
