// Package transport defines request/response DTOs for the leads module.
package transport

import (
	"time"

	"leadflow_backend/internal/leads/repository"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	Name   string  `json:"name" validate:"required,max=200"`
	Phone  string  `json:"phone" validate:"required,max=32"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Source *string `json:"source" validate:"omitempty,max=100"`
	Stage  string  `json:"stage" validate:"omitempty,max=100"`
}

type ChangeStageRequest struct {
	Stage string `json:"stage" validate:"required,max=100"`
}

type ListLeadsRequest struct {
	Stage    string `form:"stage"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

type LeadResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Email            *string    `json:"email,omitempty"`
	Source           *string    `json:"source,omitempty"`
	PipelineStage    string     `json:"pipelineStage"`
	AssignedMemberID *uuid.UUID `json:"assignedMemberId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type ListLeadsResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:               lead.ID,
		Name:             lead.Name,
		Phone:            lead.Phone,
		Email:            lead.Email,
		Source:           lead.Source,
		PipelineStage:    lead.PipelineStage,
		AssignedMemberID: lead.AssignedMemberID,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

func ToLeadListResponse(leads []repository.Lead, total int) ListLeadsResponse {
	items := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadResponse(lead))
	}
	return ListLeadsResponse{Items: items, Total: total}
}
