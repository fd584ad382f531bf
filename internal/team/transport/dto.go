// Package transport defines request/response DTOs for the team module.
package transport

import (
	"time"

	"leadflow_backend/internal/team/repository"

	"github.com/google/uuid"
)

type CreatePositionRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

type CreateMemberRequest struct {
	PositionTitle string `json:"positionTitle" validate:"required,max=100"`
	Name          string `json:"name" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email"`
}

type SetMemberFlagsRequest struct {
	Active    *bool `json:"active" validate:"required"`
	Available *bool `json:"available" validate:"required"`
}

type PositionResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type MemberResponse struct {
	ID            uuid.UUID `json:"id"`
	PositionTitle string    `json:"positionTitle"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Active        bool      `json:"active"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToPositionResponse intentionally hides the round-robin cursor: it is
// engine-owned state, not part of the API surface.
func ToPositionResponse(pos repository.Position) PositionResponse {
	return PositionResponse{
		ID:        pos.ID,
		Title:     pos.Title,
		CreatedAt: pos.CreatedAt,
	}
}

func ToMemberResponse(m repository.Member) MemberResponse {
	return MemberResponse{
		ID:            m.ID,
		PositionTitle: m.PositionTitle,
		Name:          m.Name,
		Email:         m.Email,
		Active:        m.Active,
		Available:     m.Available,
		CreatedAt:     m.CreatedAt,
	}
}
