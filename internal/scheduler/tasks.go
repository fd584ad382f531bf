// Package scheduler runs delayed background work through asynq backed by
// Redis: task due-soon reminders enqueued by the automation engine.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDueReminder = "tasks.due_reminder"

type TaskDueReminderPayload struct {
	TaskID   string `json:"taskId"`
	TenantID string `json:"tenantId"`
}

func NewTaskDueReminderTask(payload TaskDueReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDueReminder, data), nil
}

func ParseTaskDueReminderPayload(task *asynq.Task) (TaskDueReminderPayload, error) {
	var payload TaskDueReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return TaskDueReminderPayload{}, err
	}
	return payload, nil
}
