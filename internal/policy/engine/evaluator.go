package engine

import "context"

// Evaluator decides whether a caller's granted permissions satisfy an operation's
// required set. The decision is ANY-of: one shared permission is enough.
type Evaluator interface {
	Allow(ctx context.Context, required, granted []string) (bool, error)
}
