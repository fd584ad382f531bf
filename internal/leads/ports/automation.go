// Package ports defines the interfaces the leads module consumes from other
// bounded contexts, keeping module dependencies one-directional.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// AutomationTrigger is the entry point into the pipeline automation engine.
// It is guaranteed non-throwing: the implementation logs and swallows every
// failure, because automation is an enhancement of a committed stage change,
// never a precondition.
type AutomationTrigger interface {
	ExecutePipelineAutomation(ctx context.Context, leadID uuid.UUID, newStage string, tenantID uuid.UUID)
}
