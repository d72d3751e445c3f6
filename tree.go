package statetree

import (
	"sort"

	"github.com/goliatone/go-statetree/pkg/audit"
)

// Tree is a permission-gated node holding named field values. Fields keep
// their definition order. A tree is logically single-owner: operations are
// synchronous in-memory traversals and the type performs no locking of its
// own, so callers sharing one instance across goroutines must synchronize
// externally.
type Tree struct {
	names    []string
	fields   map[string]any
	explicit map[string]Permission
	policy   Permission

	cfg treeConfig
}

type treeConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       EvaluatorLogger
	auditHooks   audit.Hooks
}

// Option configures a Tree at construction time.
type Option func(*Tree)

// WithDefaultPolicy sets the policy applied to fields without an explicit
// permission. A fresh node defaults to read-write.
func WithDefaultPolicy(policy Permission) Option {
	return func(t *Tree) {
		t.policy = policy
	}
}

// WithPermission declares an explicit permission for one field. The
// declaration overrides the default policy for that field on this node only.
func WithPermission(field string, permission Permission) Option {
	return func(t *Tree) {
		t.explicit[field] = permission
	}
}

// WithPermissions declares explicit permissions for several fields at once.
func WithPermissions(permissions map[string]Permission) Option {
	return func(t *Tree) {
		for field, permission := range permissions {
			t.explicit[field] = permission
		}
	}
}

// WithEntries seeds the node with initial fields in sorted key order.
// Definition-time seeding bypasses the write policy, the same way a source
// level initializer would; use Load for a permission-checked bulk write.
func WithEntries(entries map[string]any) Option {
	return func(t *Tree) {
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			t.set(key, entries[key])
		}
	}
}

// WithEvaluator configures the expression evaluator used by Evaluate and
// Computed.
func WithEvaluator(e Evaluator) Option {
	return func(t *Tree) {
		t.cfg.evaluator = e
	}
}

// WithProgramCache registers a compiled-program cache for evaluators.
func WithProgramCache(cache ProgramCache) Option {
	return func(t *Tree) {
		t.cfg.programCache = cache
	}
}

// WithFunctionRegistry configures custom functions available to evaluators.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(t *Tree) {
		if registry == nil {
			return
		}
		t.cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for evaluator expressions.
func WithCustomFunction(name string, fn Function) Option {
	return func(t *Tree) {
		if t.cfg.functions == nil {
			t.cfg.functions = NewFunctionRegistry()
		}
		_ = t.cfg.functions.Register(name, fn)
	}
}

// WithEvaluatorLogger attaches a logger that records evaluation attempts.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(t *Tree) {
		if logger == nil {
			t.cfg.logger = noopEvaluatorLogger{}
			return
		}
		t.cfg.logger = logger
	}
}

// WithAuditHooks attaches audit hooks notified on writes and on denied
// accesses. Hooks are cloned and nil entries dropped.
func WithAuditHooks(hooks audit.Hooks) Option {
	normalized := hooks.Clone()
	return func(t *Tree) {
		t.cfg.auditHooks = normalized
	}
}

// New constructs a Tree, empty unless seeded via WithEntries.
func New(opts ...Option) *Tree {
	t := &Tree{
		fields:   map[string]any{},
		explicit: map[string]Permission{},
		policy:   DefaultPolicy,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Load constructs a Tree and bulk-writes entries through the permission
// checked WriteEntries path.
func Load(entries map[string]any, opts ...Option) (*Tree, error) {
	t := New(opts...)
	if err := t.WriteEntries(entries); err != nil {
		return nil, err
	}
	return t, nil
}

// AllowedToRead reports whether field may be read on this node: the explicit
// declaration when one exists, else the node's default policy.
func (t *Tree) AllowedToRead(field string) bool {
	if permission, ok := t.explicit[field]; ok {
		return permission.CanRead()
	}
	return t.policy.CanRead()
}

// AllowedToWrite reports whether field may be written on this node.
func (t *Tree) AllowedToWrite(field string) bool {
	if permission, ok := t.explicit[field]; ok {
		return permission.CanWrite()
	}
	return t.policy.CanWrite()
}

// ExplicitPermission returns the permission declared for field, if any.
func (t *Tree) ExplicitPermission(field string) (Permission, bool) {
	permission, ok := t.explicit[field]
	return permission, ok
}

// Policy returns the node's default policy.
func (t *Tree) Policy() Permission {
	return t.policy
}

// Fields returns the node's field names in definition order.
func (t *Tree) Fields() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of fields on this node.
func (t *Tree) Len() int {
	return len(t.names)
}

// set assigns value to field, tracking definition order for new fields.
func (t *Tree) set(field string, value any) {
	if _, exists := t.fields[field]; !exists {
		t.names = append(t.names, field)
	}
	t.fields[field] = value
}

// valueOf returns the raw value stored at field without permission checks
// or producer resolution.
func (t *Tree) valueOf(field string) (any, bool) {
	value, ok := t.fields[field]
	return value, ok
}
