package repository

import (
	"testing"

	"leadflow_backend/platform/apperr"
)

func TestValidateTemplatesAppliesDueDefault(t *testing.T) {
	templates := []TaskTemplate{
		{Title: "Call the lead", AssigneePositionTitle: "Account Executive"},
		{Title: "Send the deck", AssigneePositionTitle: "Account Executive", DueInHours: 48},
	}

	if err := ValidateTemplates(templates); err != nil {
		t.Fatalf("ValidateTemplates: %v", err)
	}
	if templates[0].DueInHours != DefaultDueInHours {
		t.Errorf("unset dueInHours = %d, want %d", templates[0].DueInHours, DefaultDueInHours)
	}
	if templates[1].DueInHours != 48 {
		t.Errorf("explicit dueInHours = %d, want 48 untouched", templates[1].DueInHours)
	}
}

func TestValidateTemplatesRejections(t *testing.T) {
	cases := []struct {
		name      string
		templates []TaskTemplate
	}{
		{"empty", nil},
		{"missing title", []TaskTemplate{{AssigneePositionTitle: "SDR"}}},
		{"missing position", []TaskTemplate{{Title: "Call"}}},
		{"negative due", []TaskTemplate{{Title: "Call", AssigneePositionTitle: "SDR", DueInHours: -1}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTemplates(tc.templates)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
			}
		})
	}
}
