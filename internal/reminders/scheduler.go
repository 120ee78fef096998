package reminders

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Scheduler registers the periodic due-scan task and runs the asynq scheduler.
type Scheduler interface {
	RegisterTasks() error
	Run()
	Shutdown()
}

type scheduler struct {
	asynqScheduler *asynq.Scheduler
	cronSpec       string
	log            *slog.Logger
}

// NewScheduler builds a Scheduler enqueueing the due scan on cronSpec.
func NewScheduler(redisOpt asynq.RedisConnOpt, cronSpec string, log *slog.Logger) Scheduler {
	if log == nil {
		log = slog.Default()
	}

	return &scheduler{
		asynqScheduler: asynq.NewScheduler(redisOpt, nil),
		cronSpec:       cronSpec,
		log:            log,
	}
}

func (s *scheduler) RegisterTasks() error {
	task, err := NewDueScanTask(time.Time{})
	if err != nil {
		return err
	}

	if _, err := s.asynqScheduler.Register(s.cronSpec, task); err != nil {
		return err
	}

	s.log.InfoContext(context.Background(), "scheduler: registered due scan task", slog.String("cron", s.cronSpec))

	return nil
}

func (s *scheduler) Run() {
	s.log.InfoContext(context.Background(), "scheduler: starting")

	go func() {
		if err := s.asynqScheduler.Run(); err != nil {
			s.log.ErrorContext(context.Background(), "scheduler: run failed", slog.Any("error", err))
		}
	}()
}

func (s *scheduler) Shutdown() {
	s.log.InfoContext(context.Background(), "scheduler: shutting down")

	s.asynqScheduler.Shutdown()
}
