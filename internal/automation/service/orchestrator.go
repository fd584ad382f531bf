package service

import (
	"context"
	"fmt"

	"leadflow_backend/internal/audit"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// Outcome classifies one automation run for logging.
type Outcome string

const (
	OutcomeRan            Outcome = "ran"
	OutcomeAlreadyVisited Outcome = "already_visited"
	OutcomeNoRules        Outcome = "no_rules"
	OutcomeFailed         Outcome = "failed"
)

// Orchestrator is the automation entry point invoked after a stage change
// commits. It never returns an error and never panics across its boundary:
// the stage change is already durable, so a broken automation run must not
// surface as a failed request. Faults are logged and swallowed.
type Orchestrator struct {
	ledger       VisitLedger
	rules        RuleSource
	leads        LeadDirectory
	materializer *Materializer
	auditor      AuditTrail
	log          *logger.Logger
}

func NewOrchestrator(ledger VisitLedger, rules RuleSource, leads LeadDirectory, materializer *Materializer, auditor AuditTrail, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		ledger:       ledger,
		rules:        rules,
		leads:        leads,
		materializer: materializer,
		auditor:      auditor,
		log:          log,
	}
}

// ExecutePipelineAutomation runs stage automation for a lead that just
// entered newStage. Safe to call from any number of concurrent writers;
// exactly one of them materializes tasks per (lead, stage).
func (o *Orchestrator) ExecutePipelineAutomation(ctx context.Context, leadID uuid.UUID, newStage string, tenantID uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			o.log.AutomationFailure(leadID.String(), newStage, tenantID.String(), fmt.Errorf("panic: %v", r))
		}
	}()

	outcome, err := o.run(ctx, leadID, newStage, tenantID)
	switch {
	case err != nil:
		o.log.AutomationFailure(leadID.String(), newStage, tenantID.String(), err)
	case outcome != OutcomeRan:
		o.log.AutomationSkipped(leadID.String(), newStage, string(outcome))
	default:
		o.log.Info("automation_ran",
			"lead_id", leadID.String(),
			"stage", newStage,
			"tenant_id", tenantID.String(),
		)
	}
}

func (o *Orchestrator) run(ctx context.Context, leadID uuid.UUID, newStage string, tenantID uuid.UUID) (Outcome, error) {
	visited, err := o.ledger.Exists(ctx, leadID, newStage)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("check stage visit: %w", err)
	}
	if visited {
		return OutcomeAlreadyVisited, nil
	}

	inserted, err := o.ledger.InsertIfAbsent(ctx, leadID, newStage, tenantID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("record stage visit: %w", err)
	}
	if !inserted {
		// Lost the race; the winner materializes the tasks.
		return OutcomeAlreadyVisited, nil
	}

	if err := o.auditor.Append(ctx, AuditEntry{
		TenantID: tenantID,
		LeadID:   leadID,
		Action:   audit.ActionStageEntered,
		Detail:   map[string]any{"stage": newStage},
	}); err != nil {
		return OutcomeFailed, fmt.Errorf("audit stage entry: %w", err)
	}

	rules, err := o.rules.FindActive(ctx, tenantID, newStage)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("load rules: %w", err)
	}
	if len(rules) == 0 {
		return OutcomeNoRules, nil
	}

	lead, err := o.leads.Get(ctx, leadID, tenantID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("load lead: %w", err)
	}

	// A failing template must not take its siblings down with it.
	var firstErr error
	failed := 0
	for _, rule := range rules {
		for _, tmpl := range rule.TaskTemplates {
			if _, err := o.materializer.Materialize(ctx, lead, rule, tmpl, tenantID); err != nil {
				failed++
				if firstErr == nil {
					firstErr = err
				}
				o.log.Error("automation_template_failed",
					"lead_id", leadID.String(),
					"rule_id", rule.ID.String(),
					"title", tmpl.Title,
					"error", err.Error(),
				)
			}
		}
	}
	if failed > 0 {
		return OutcomeFailed, fmt.Errorf("%d template(s) failed: %w", failed, firstErr)
	}

	return OutcomeRan, nil
}
