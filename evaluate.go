package statetree

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("statetree: evaluator not configured")

// Evaluate executes expr against the node's readable snapshot using the
// configured evaluator and wraps the result.
func (t *Tree) Evaluate(expr string) (Response, error) {
	return t.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith executes expr using ctx, falling back to the node's Entries
// snapshot when ctx.Snapshot is nil.
func (t *Tree) EvaluateWith(ctx RuleContext, expr string) (Response, error) {
	if expr == "" {
		return Response{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := t.resolveEvaluator()
	if err != nil {
		return Response{}, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = t.Entries()
	}
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, expr, ctx.pathLabel(), evalErr)
	t.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Path:     ctx.pathLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response{}, evalErr
	}
	return Response{Value: value}, nil
}

func (t *Tree) resolveEvaluator() (Evaluator, error) {
	if t.cfg.evaluator != nil {
		return t.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := t.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := t.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	t.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func (t *Tree) evaluatorLogger() EvaluatorLogger {
	if t.cfg.logger != nil {
		return t.cfg.logger
	}
	return noopEvaluatorLogger{}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*statetree.exprEvaluator":
		return "expr"
	case "*statetree.celEvaluator":
		return "cel"
	case "*statetree.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
