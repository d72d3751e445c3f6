package statetree

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEvaluateWithDefaultExprEvaluator(t *testing.T) {
	tree := New(WithEntries(map[string]any{"a": 2, "b": 3}))

	response, err := tree.Evaluate("a + b")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if fmt.Sprint(response.Value) != "5" {
		t.Fatalf("expected 5, got %v", response.Value)
	}
}

type mapProgramCache struct {
	programs map[string]any
}

func newMapProgramCache() *mapProgramCache {
	return &mapProgramCache{programs: map[string]any{}}
}

func (c *mapProgramCache) Get(key string) (any, bool) {
	value, ok := c.programs[key]
	return value, ok
}

func (c *mapProgramCache) Set(key string, value any) {
	c.programs[key] = value
}

func TestEvaluateSkipsUnreadableFields(t *testing.T) {
	tree := New(
		WithPermission("secret", PermissionNone),
		WithEntries(map[string]any{"secret": 99, "open": 1}),
		WithProgramCache(newMapProgramCache()),
	)

	// The snapshot fed to the evaluator is the permission-filtered Entries
	// output, so unreadable fields resolve as undefined.
	response, err := tree.Evaluate("secret == nil")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if response.Value != true {
		t.Fatalf("unreadable fields must not leak into expressions, got %v", response.Value)
	}
}

func TestEvaluateEmptyExpressionRejected(t *testing.T) {
	tree := New()
	if _, err := tree.Evaluate(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestEvaluateReportsThroughLogger(t *testing.T) {
	var events []EvaluatorLogEvent
	tree := New(
		WithEntries(map[string]any{"a": 1}),
		WithEvaluatorLogger(EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
			events = append(events, event)
		})),
	)

	if _, err := tree.Evaluate("a"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one log event, got %d", len(events))
	}
	if events[0].Engine != "expr" || events[0].Expr != "a" {
		t.Fatalf("unexpected log event: %+v", events[0])
	}
	if events[0].Err != nil {
		t.Fatalf("successful evaluation must log nil error, got %v", events[0].Err)
	}
}

func TestComputedProducerEvaluatesSnapshot(t *testing.T) {
	tree := New(WithEntries(map[string]any{"price": 10, "qty": 4}))
	if _, err := tree.Write("total", tree.Computed("price * qty")); err != nil {
		t.Fatalf("write computed: %v", err)
	}

	value, err := tree.Read("total")
	if err != nil {
		t.Fatalf("read total: %v", err)
	}
	if fmt.Sprint(value) != "40" {
		t.Fatalf("expected 40, got %v", value)
	}

	// Computed fields track snapshot changes because nothing is cached.
	if _, err := tree.Write("qty", 5); err != nil {
		t.Fatalf("write qty: %v", err)
	}
	if value, _ := tree.Read("total"); fmt.Sprint(value) != "50" {
		t.Fatalf("expected recomputed 50, got %v", value)
	}

	// Entries still emits the raw producer.
	if _, ok := tree.Entries()["total"].(Producer); !ok {
		t.Fatalf("entries must not resolve computed fields")
	}
}

func TestComputedProducerYieldsNilOnFailure(t *testing.T) {
	var logged error
	tree := New(WithEvaluatorLogger(EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		logged = event.Err
	})))
	if _, err := tree.Write("broken", tree.Computed("1 +")); err != nil {
		t.Fatalf("write: %v", err)
	}

	value, err := tree.Read("broken")
	if err != nil {
		t.Fatalf("read must not surface evaluation errors: %v", err)
	}
	if value != nil {
		t.Fatalf("failed producer must yield nil, got %v", value)
	}
	var evalErr *EvaluationError
	if !errors.As(logged, &evalErr) {
		t.Fatalf("expected logged EvaluationError, got %v", logged)
	}
}

type failingEvaluator struct{}

func (failingEvaluator) Evaluate(RuleContext, string) (any, error) {
	return nil, errors.New("boom")
}

func (failingEvaluator) Compile(string, ...CompileOption) (CompiledRule, error) {
	return nil, errors.New("boom")
}

func TestEvaluateErrorsCarryEngineName(t *testing.T) {
	tree := New(WithEvaluator(failingEvaluator{}))

	_, err := tree.Evaluate("anything")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
	if evalErr.Engine != "custom" {
		t.Fatalf("engine = %q, want %q", evalErr.Engine, "custom")
	}
	if !strings.Contains(err.Error(), "custom evaluator") {
		t.Fatalf("message must name the engine, got %q", err.Error())
	}
}

func TestCELEvaluator(t *testing.T) {
	evaluator := NewCELEvaluator()
	value, err := evaluator.Evaluate(RuleContext{Snapshot: map[string]any{"a": 2}}, "a == 2")
	if err != nil {
		t.Fatalf("cel evaluate: %v", err)
	}
	if value != true {
		t.Fatalf("expected true, got %v", value)
	}
}

func TestCELEvaluatorRegistryCall(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		n, ok := args[0].(int64)
		if !ok {
			return nil, fmt.Errorf("double wants an int, got %T", args[0])
		}
		return n * 2, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	evaluator := NewCELEvaluator(CELWithFunctionRegistry(registry))
	value, err := evaluator.Evaluate(RuleContext{Snapshot: map[string]any{"n": 21}}, `call("double", n)`)
	if err != nil {
		t.Fatalf("cel evaluate: %v", err)
	}
	if fmt.Sprint(value) != "42" {
		t.Fatalf("expected 42, got %v", value)
	}
}

func TestComputedWithAlternateEvaluator(t *testing.T) {
	tree := New(WithEntries(map[string]any{"threshold": 10}))
	producer := tree.ComputedWith(NewCELEvaluator(), "threshold >= 5")
	if _, err := tree.Write("armed", producer); err != nil {
		t.Fatalf("write: %v", err)
	}
	value, err := tree.Read("armed")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if value != true {
		t.Fatalf("expected true, got %v", value)
	}
}

func TestFunctionRegistryFunctions(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("double wants one argument")
		}
		n, ok := args[0].(int)
		if !ok {
			return nil, fmt.Errorf("double wants an int")
		}
		return n * 2, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	tree := New(
		WithEntries(map[string]any{"n": 21}),
		WithFunctionRegistry(registry),
	)
	response, err := tree.Evaluate("double(n)")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if fmt.Sprint(response.Value) != "42" {
		t.Fatalf("expected 42, got %v", response.Value)
	}
}

func TestJSEvaluatorAvailability(t *testing.T) {
	if !jsEvaluatorAvailable() {
		if NewJSEvaluator() != nil {
			t.Fatalf("js evaluator must be nil without the js_eval build tag")
		}
		t.Skip("js evaluator requires the js_eval build tag")
	}
	evaluator := NewJSEvaluator()
	value, err := evaluator.Evaluate(RuleContext{Snapshot: map[string]any{"a": 2}}, "a + 1")
	if err != nil {
		t.Fatalf("js evaluate: %v", err)
	}
	if fmt.Sprint(value) != "3" {
		t.Fatalf("expected 3, got %v", value)
	}

	// The whole snapshot is also reachable through the state binding.
	value, err = evaluator.Evaluate(RuleContext{Snapshot: map[string]any{"a": 2}}, "state.a + 1")
	if err != nil {
		t.Fatalf("js evaluate state binding: %v", err)
	}
	if fmt.Sprint(value) != "3" {
		t.Fatalf("expected 3, got %v", value)
	}
}
