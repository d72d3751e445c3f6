package audit

import "time"

// Access verbs emitted by the tree and its consumers.
const (
	VerbRead   = "tree.read"
	VerbWrite  = "tree.write"
	VerbDenied = "tree.denied"
)

// ObjectTypeField identifies a tree field as the object of an event.
const ObjectTypeField = "tree.field"

// EventInput describes the common fields for tree access events.
type EventInput struct {
	Op         string
	Path       string
	Field      string
	Value      any
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildReadEvent constructs a normalized event for a field read. The tree
// itself never emits these, since reads are pure queries; callers auditing
// reads build them at the boundary.
func BuildReadEvent(input EventInput) Event {
	return buildAccessEvent(VerbRead, input)
}

// BuildWriteEvent constructs a normalized event for a field write.
func BuildWriteEvent(input EventInput) Event {
	event := buildAccessEvent(VerbWrite, input)
	if input.Value != nil {
		event.Metadata = ensureMetadata(event.Metadata)
		event.Metadata["value"] = input.Value
	}
	return event
}

// BuildDeniedEvent constructs a normalized event for a denied access.
// Input.Op carries the operation that was refused ("read" or "write").
func BuildDeniedEvent(input EventInput) Event {
	event := buildAccessEvent(VerbDenied, input)
	if input.Op != "" {
		event.Metadata = ensureMetadata(event.Metadata)
		event.Metadata["op"] = input.Op
	}
	return event
}

func buildAccessEvent(verb string, input EventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Field != "" {
		metadata = ensureMetadata(metadata)
		metadata["field"] = input.Field
	}
	return NormalizeEvent(Event{
		Verb:       verb,
		ActorID:    input.ActorID,
		UserID:     input.UserID,
		TenantID:   input.TenantID,
		ObjectType: ObjectTypeField,
		ObjectID:   input.Path,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	})
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
