// Package transport defines request/response DTOs for the tasks module.
package transport

import (
	"time"

	"leadflow_backend/internal/tasks/repository"

	"github.com/google/uuid"
)

type ListTasksRequest struct {
	MemberID string `form:"memberId"`
	LeadID   string `form:"leadId"`
	Status   string `form:"status"`
}

type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	RuleID      uuid.UUID  `json:"ruleId"`
	MemberID    uuid.UUID  `json:"memberId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueAt       time.Time  `json:"dueAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func ToTaskResponse(task repository.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		LeadID:      task.LeadID,
		RuleID:      task.RuleID,
		MemberID:    task.MemberID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueAt:       task.DueAt,
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

func ToTaskListResponse(tasks []repository.Task) []TaskResponse {
	items := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskResponse(task))
	}
	return items
}
