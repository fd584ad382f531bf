package scheduler

import (
	"context"
	"errors"
	"fmt"

	"leadflow_backend/internal/events"
	tasksrepo "leadflow_backend/internal/tasks/repository"
	teamrepo "leadflow_backend/internal/team/repository"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	tasks  *tasksrepo.Repository
	team   *teamrepo.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		tasks:  tasksrepo.New(pool),
		team:   teamrepo.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskDueReminder, w.handleTaskDueReminder)

	return w, nil
}

// handleTaskDueReminder re-checks that the task is still pending when the
// reminder fires; tasks completed in the meantime produce no notification.
func (w *Worker) handleTaskDueReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseTaskDueReminderPayload(task)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		return err
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return err
	}

	record, err := w.tasks.GetByID(ctx, taskID, tenantID)
	if errors.Is(err, tasksrepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if record.Status != tasksrepo.StatusPending {
		return nil
	}

	member, err := w.team.GetMember(ctx, record.MemberID, tenantID)
	if errors.Is(err, teamrepo.ErrMemberNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if w.bus == nil {
		return nil
	}

	return w.bus.PublishSync(ctx, events.TaskDueSoon{
		BaseEvent:   events.NewBaseEvent(),
		TaskID:      record.ID,
		TenantID:    record.TenantID,
		MemberID:    member.ID,
		MemberEmail: member.Email,
		MemberName:  member.Name,
		Title:       record.Title,
		DueAt:       record.DueAt,
	})
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
