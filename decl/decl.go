// Package decl compiles node declaration documents into permission trees.
// A document declares a node's default policy, its fields with optional
// explicit permissions, and nested nodes, in YAML or JSONC:
//
//	policy: rw
//	fields:
//	  name:
//	    value: gopher
//	  secret:
//	    permission: none
//	    value: hunter2
//	  server:
//	    policy: r
//	    fields:
//	      host: { value: localhost }
//
// How a permission is declared is deliberately decoupled from the core: the
// statetree package only ever queries the per-node permission mapping this
// package populates through construction options.
package decl

import (
	"encoding/json"
	"fmt"

	statetree "github.com/goliatone/go-statetree"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// NodeSpec declares one tree node.
type NodeSpec struct {
	Policy string               `yaml:"policy,omitempty" json:"policy,omitempty"`
	Fields map[string]FieldSpec `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// FieldSpec declares one field. A spec with Fields set declares a nested
// node; otherwise Value carries the field's initial value. Permission is
// optional: absent means the owning node's default policy applies.
type FieldSpec struct {
	Permission *string              `yaml:"permission,omitempty" json:"permission,omitempty"`
	Value      any                  `yaml:"value,omitempty" json:"value,omitempty"`
	Policy     string               `yaml:"policy,omitempty" json:"policy,omitempty"`
	Fields     map[string]FieldSpec `yaml:"fields,omitempty" json:"fields,omitempty"`
}

func (f FieldSpec) isNode() bool {
	return f.Fields != nil || f.Policy != ""
}

// ParseYAML decodes a YAML declaration document.
func ParseYAML(data []byte) (NodeSpec, error) {
	var spec NodeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return NodeSpec{}, fmt.Errorf("decl: parse yaml: %w", err)
	}
	return spec, nil
}

// ParseJSONC decodes a JSONC declaration document (JSON with comments and
// trailing commas).
func ParseJSONC(data []byte) (NodeSpec, error) {
	var spec NodeSpec
	if err := json.Unmarshal(jsonc.ToJSON(data), &spec); err != nil {
		return NodeSpec{}, fmt.Errorf("decl: parse jsonc: %w", err)
	}
	return spec, nil
}

// Compile builds the declared tree, recursively compiling nested nodes.
// Values are seeded at definition time, so declarations may populate fields
// the declared policy would forbid writing afterwards.
func (spec NodeSpec) Compile(opts ...statetree.Option) (*statetree.Tree, error) {
	options := make([]statetree.Option, 0, len(spec.Fields)+len(opts)+2)

	if spec.Policy != "" {
		policy, err := statetree.ParsePermission(spec.Policy)
		if err != nil {
			return nil, fmt.Errorf("decl: node policy: %w", err)
		}
		options = append(options, statetree.WithDefaultPolicy(policy))
	}

	entries := make(map[string]any, len(spec.Fields))
	for name, field := range spec.Fields {
		if field.Permission != nil {
			permission, err := statetree.ParsePermission(*field.Permission)
			if err != nil {
				return nil, fmt.Errorf("decl: field %q: %w", name, err)
			}
			options = append(options, statetree.WithPermission(name, permission))
		}
		if field.isNode() {
			nested, err := NodeSpec{Policy: field.Policy, Fields: field.Fields}.Compile()
			if err != nil {
				return nil, fmt.Errorf("decl: field %q: %w", name, err)
			}
			entries[name] = nested
			continue
		}
		entries[name] = field.Value
	}
	options = append(options, statetree.WithEntries(entries))
	options = append(options, opts...)

	return statetree.New(options...), nil
}

// FromYAML parses and compiles a YAML declaration in one step.
func FromYAML(data []byte, opts ...statetree.Option) (*statetree.Tree, error) {
	spec, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return spec.Compile(opts...)
}

// FromJSONC parses and compiles a JSONC declaration in one step.
func FromJSONC(data []byte, opts ...statetree.Option) (*statetree.Tree, error) {
	spec, err := ParseJSONC(data)
	if err != nil {
		return nil, err
	}
	return spec.Compile(opts...)
}
