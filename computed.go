package statetree

// Computed returns a Producer that evaluates expression against the node's
// readable snapshot each time Read resolves it. Evaluation failures yield a
// nil value; attach an EvaluatorLogger to observe them, since a Producer has
// no error channel.
func (t *Tree) Computed(expression string) Producer {
	return func() any {
		response, err := t.EvaluateWith(RuleContext{Path: expression}, expression)
		if err != nil {
			return nil
		}
		return response.Value
	}
}

// ComputedWith behaves like Computed using a specific evaluator instead of
// the node's configured one.
func (t *Tree) ComputedWith(e Evaluator, expression string) Producer {
	if e == nil {
		return t.Computed(expression)
	}
	return func() any {
		ctx := RuleContext{Snapshot: t.Entries(), Path: expression}.withDefaults()
		value, err := e.Evaluate(ctx, expression)
		if err != nil {
			t.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
				Engine: evaluatorEngineName(e),
				Expr:   expression,
				Path:   ctx.pathLabel(),
				Err:    wrapEvaluationError(evaluatorEngineName(e), expression, ctx.pathLabel(), err),
			})
			return nil
		}
		return value
	}
}
