package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const decisionQuery = "data.rbac.authz.allow"

// Default authorization policy: allow when any required permission is granted.
const defaultRegoPolicy = `package rbac.authz

default allow := false

allow if {
	some p in input.required
	p in input.granted
}
`

// OPAEvaluator evaluates the authorization policy with an in-process OPA Rego engine.
// The policy is compiled once; evaluations are safe for concurrent use.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles the default authorization policy.
func NewOPAEvaluator(ctx context.Context) (*OPAEvaluator, error) {
	return NewOPAEvaluatorWithPolicy(ctx, defaultRegoPolicy)
}

// NewOPAEvaluatorWithPolicy compiles policy, which must define data.rbac.authz.allow.
func NewOPAEvaluatorWithPolicy(ctx context.Context, policy string) (*OPAEvaluator, error) {
	compiler, err := ast.CompileModules(map[string]string{"authz.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile policy: %w", err)
	}
	pq, err := rego.New(
		rego.Query(decisionQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare policy: %w", err)
	}
	return &OPAEvaluator{query: pq}, nil
}

// Allow reports whether granted contains at least one of required. An empty
// required set never allows; callers skip the evaluator for undeclared operations.
func (e *OPAEvaluator) Allow(ctx context.Context, required, granted []string) (bool, error) {
	input := map[string]interface{}{
		"required": toInterfaces(required),
		"granted":  toInterfaces(granted),
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("eval policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("policy query returned no result")
	}
	allow, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("policy decision is %T, want bool", rs[0].Expressions[0].Value)
	}
	return allow, nil
}

// HealthCheck evaluates a fixed input against the compiled policy. Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	allow, err := e.Allow(ctx, []string{"health"}, []string{"health"})
	if err != nil {
		return err
	}
	if !allow {
		return fmt.Errorf("policy denied health probe")
	}
	return nil
}

func toInterfaces(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
