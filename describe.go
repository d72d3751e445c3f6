package statetree

// FieldDescriptor describes one field of a node: its path from the described
// root, the variant of its stored value, and the permission that governs it.
type FieldDescriptor struct {
	Path       string     `json:"path"`
	Kind       string     `json:"kind"`
	Permission Permission `json:"permission"`
	Explicit   bool       `json:"explicit,omitempty"`
}

// Describe walks the tree in definition order and returns a flat descriptor
// per field, nested nodes included. Unlike Entries it reports unreadable
// fields too; it is an introspection surface, not a read path.
func (t *Tree) Describe() []FieldDescriptor {
	return t.describe("")
}

func (t *Tree) describe(prefix string) []FieldDescriptor {
	descriptors := make([]FieldDescriptor, 0, len(t.names))
	for _, name := range t.names {
		path := name
		if prefix != "" {
			path = JoinPath(prefix, name)
		}
		permission, explicit := t.explicit[name]
		if !explicit {
			permission = t.policy
		}
		value := t.fields[name]
		descriptors = append(descriptors, FieldDescriptor{
			Path:       path,
			Kind:       KindOf(value).String(),
			Permission: permission,
			Explicit:   explicit,
		})
		if node, ok := value.(*Tree); ok && node != nil {
			descriptors = append(descriptors, node.describe(path)...)
		}
	}
	return descriptors
}
