package access

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/service/audit"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

// Guard applies the policy and records every decision.
type Guard struct {
	policy  *Policy
	auditor *audit.Logger
	metrics *metrics.Metrics
}

func NewGuard(policy *Policy, auditor *audit.Logger, m *metrics.Metrics) *Guard {
	return &Guard{policy: policy, auditor: auditor, metrics: m}
}

// Check returns a 403 AppError when actor may not perform action on target.
func (g *Guard) Check(ctx context.Context, actor Actor, action Action, target Target) error {
	decision := g.policy.CanAccess(actor, action, target)

	if g.metrics != nil {
		g.metrics.AccessDecisions.WithLabelValues(string(target.Kind), decision.String()).Inc()
	}
	g.auditor.Record(ctx, audit.Entry{
		ActorID:    actor.AccountID,
		Role:       actor.Role,
		Action:     string(action),
		Resource:   string(target.Kind),
		ResourceID: target.ID.String(),
		Decision:   decision.String(),
	})

	if decision == Deny {
		return apperrors.Forbidden("Access denied")
	}
	return nil
}
