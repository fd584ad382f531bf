// Package transport defines request/response DTOs for the automation module.
package transport

import (
	"time"

	"leadflow_backend/internal/automation/repository"

	"github.com/google/uuid"
)

type TaskTemplateRequest struct {
	Title                 string `json:"title" validate:"required,max=200"`
	Description           string `json:"description" validate:"max=2000"`
	AssigneePositionTitle string `json:"assigneePositionTitle" validate:"required,max=100"`
	DueInHours            int    `json:"dueInHours" validate:"gte=0,lte=8760"`
}

type CreateRuleRequest struct {
	PipelineStage string                `json:"pipelineStage" validate:"required,max=100"`
	Active        *bool                 `json:"active"`
	TaskTemplates []TaskTemplateRequest `json:"taskTemplates" validate:"required,min=1,dive"`
}

type SetRuleActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type TaskTemplateResponse struct {
	Title                 string `json:"title"`
	Description           string `json:"description,omitempty"`
	AssigneePositionTitle string `json:"assigneePositionTitle"`
	DueInHours            int    `json:"dueInHours"`
}

type RuleResponse struct {
	ID            uuid.UUID              `json:"id"`
	PipelineStage string                 `json:"pipelineStage"`
	Active        bool                   `json:"active"`
	TaskTemplates []TaskTemplateResponse `json:"taskTemplates"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

func ToTemplates(in []TaskTemplateRequest) []repository.TaskTemplate {
	templates := make([]repository.TaskTemplate, 0, len(in))
	for _, tmpl := range in {
		templates = append(templates, repository.TaskTemplate{
			Title:                 tmpl.Title,
			Description:           tmpl.Description,
			AssigneePositionTitle: tmpl.AssigneePositionTitle,
			DueInHours:            tmpl.DueInHours,
		})
	}
	return templates
}

func ToRuleResponse(rule repository.Rule) RuleResponse {
	templates := make([]TaskTemplateResponse, 0, len(rule.TaskTemplates))
	for _, tmpl := range rule.TaskTemplates {
		templates = append(templates, TaskTemplateResponse{
			Title:                 tmpl.Title,
			Description:           tmpl.Description,
			AssigneePositionTitle: tmpl.AssigneePositionTitle,
			DueInHours:            tmpl.DueInHours,
		})
	}
	return RuleResponse{
		ID:            rule.ID,
		PipelineStage: rule.PipelineStage,
		Active:        rule.Active,
		TaskTemplates: templates,
		CreatedAt:     rule.CreatedAt,
		UpdatedAt:     rule.UpdatedAt,
	}
}

func ToRuleListResponse(rules []repository.Rule) []RuleResponse {
	items := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		items = append(items, ToRuleResponse(rule))
	}
	return items
}
