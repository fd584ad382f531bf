package domain

import (
	"testing"

	"leadflow_backend/platform/apperr"
)

func TestValidateTransitionForwardAllowed(t *testing.T) {
	set := NewStageSet(nil)
	if err := set.ValidateTransition("New", "Attempting Contact"); err != nil {
		t.Fatalf("expected forward transition to be allowed, got %v", err)
	}
}

func TestValidateTransitionBackwardRejected(t *testing.T) {
	set := NewStageSet(nil)
	err := set.ValidateTransition("Qualified", "New")
	if err == nil {
		t.Fatal("expected backward transition to be rejected")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateTransitionSameStageRejected(t *testing.T) {
	set := NewStageSet(nil)
	if err := set.ValidateTransition("Qualified", "Qualified"); err == nil {
		t.Fatal("expected same-stage transition to be rejected")
	}
}

func TestValidateTransitionUnknownTargetRejected(t *testing.T) {
	set := NewStageSet(nil)
	if err := set.ValidateTransition("New", "Imaginary"); err == nil {
		t.Fatal("expected unknown target stage to be rejected")
	}
}

func TestValidateTransitionUnknownCurrentStageAllowsAnyKnownTarget(t *testing.T) {
	set := NewStageSet([]StageDefinition{
		{Name: "Intake", StageOrder: 1},
		{Name: "Won", StageOrder: 2},
	})
	if err := set.ValidateTransition("Legacy Stage", "Won"); err != nil {
		t.Fatalf("expected transition from removed stage to succeed, got %v", err)
	}
}

func TestNewStageSetFallsBackToDefaults(t *testing.T) {
	set := NewStageSet(nil)
	if !set.Contains("Attempting Contact") {
		t.Fatal("expected default pipeline to contain Attempting Contact")
	}
}
