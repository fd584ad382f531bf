// Package domain holds pipeline stage rules shared by the leads module and
// the automation engine.
package domain

import (
	"leadflow_backend/platform/apperr"
)

// StageDefinition is one entry of a tenant's pipeline, ordered by StageOrder.
type StageDefinition struct {
	Name       string `json:"name"`
	StageOrder int    `json:"stageOrder"`
}

// DefaultStages is the pipeline seeded for tenants that have not defined
// their own. The stage set is open: tenants may replace it entirely.
var DefaultStages = []StageDefinition{
	{Name: "New", StageOrder: 10},
	{Name: "Attempting Contact", StageOrder: 20},
	{Name: "Qualified", StageOrder: 30},
	{Name: "Proposal Sent", StageOrder: 40},
	{Name: "Negotiation", StageOrder: 50},
	{Name: "Closed", StageOrder: 60},
}

// StageSet maps stage names to their numeric order for a single tenant.
type StageSet map[string]int

// NewStageSet builds a StageSet from definitions, falling back to
// DefaultStages when the tenant has none.
func NewStageSet(defs []StageDefinition) StageSet {
	if len(defs) == 0 {
		defs = DefaultStages
	}
	set := make(StageSet, len(defs))
	for _, def := range defs {
		set[def.Name] = def.StageOrder
	}
	return set
}

// Contains reports whether the stage is part of the pipeline.
func (s StageSet) Contains(stage string) bool {
	_, ok := s[stage]
	return ok
}

// ValidateTransition enforces the monotonic-forward constraint: a lead may
// only move to a stage with a strictly higher order. This runs before the
// stage mutation is persisted; the automation engine assumes it already held.
func (s StageSet) ValidateTransition(from, to string) error {
	toOrder, ok := s[to]
	if !ok {
		return apperr.Validation("unknown pipeline stage: " + to)
	}

	fromOrder, ok := s[from]
	if !ok {
		// Legacy leads may carry a stage that was since removed from the
		// pipeline; any known target is acceptable then.
		return nil
	}

	if toOrder <= fromOrder {
		return apperr.Validation("pipeline stage transitions must move forward")
	}

	return nil
}
