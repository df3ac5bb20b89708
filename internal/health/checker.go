// Package health reports liveness and readiness of the server's dependencies.
package health

import (
	"context"
	"fmt"
	"time"
)

const checkTimeout = 2 * time.Second

// Pinger checks database connectivity. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker checks that the authorization engine can evaluate.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Checker runs the readiness checks. Nil dependencies are skipped.
type Checker struct {
	db     Pinger
	policy PolicyChecker
}

// NewChecker returns a Checker.
func NewChecker(db Pinger, policy PolicyChecker) *Checker {
	return &Checker{db: db, policy: policy}
}

// Ready returns nil when every configured dependency responds.
func (c *Checker) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if c.db != nil {
		if err := c.db.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if c.policy != nil {
		if err := c.policy.HealthCheck(ctx); err != nil {
			return fmt.Errorf("policy engine: %w", err)
		}
	}
	return nil
}
