package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int { return 1 }

func TestClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url, got nil")
	}
}

func TestScheduleTaskDueReminderEnqueues(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := NewClient(testSchedulerConfig{
		redisURL: "redis://" + mr.Addr(),
		queue:    "reminders",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.ScheduleTaskDueReminder(context.Background(), uuid.New(), uuid.New(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ScheduleTaskDueReminder: %v", err)
	}

	// asynq stores scheduled tasks in a sorted set per queue.
	if !mr.Exists("asynq:{reminders}:scheduled") {
		t.Error("expected a scheduled task in the reminders queue")
	}
}

func TestNilClientSchedulingIsNoOp(t *testing.T) {
	var client *Client
	err := client.ScheduleTaskDueReminder(context.Background(), uuid.New(), uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("nil client should no-op, got %v", err)
	}
}

func TestTaskDueReminderPayloadRoundTrip(t *testing.T) {
	payload := TaskDueReminderPayload{
		TaskID:   uuid.New().String(),
		TenantID: uuid.New().String(),
	}

	task, err := NewTaskDueReminderTask(payload)
	if err != nil {
		t.Fatalf("NewTaskDueReminderTask: %v", err)
	}
	if task.Type() != TaskDueReminder {
		t.Errorf("task type = %q, want %q", task.Type(), TaskDueReminder)
	}

	parsed, err := ParseTaskDueReminderPayload(task)
	if err != nil {
		t.Fatalf("ParseTaskDueReminderPayload: %v", err)
	}
	if parsed != payload {
		t.Errorf("parsed = %+v, want %+v", parsed, payload)
	}
}
