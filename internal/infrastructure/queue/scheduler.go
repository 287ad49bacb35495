package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/shared"
	"library-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
	}
}

// RegisterCirculationJobs wires the recurring maintenance tasks.
func (s *Scheduler) RegisterCirculationJobs() error {
	if err := s.registerExpireHoldsJob(); err != nil {
		return err
	}
	return s.registerOverdueScanJob()
}

// Every 10 minutes. Reads already ignore expired holds, so the sweep
// frequency only affects how long dead rows linger.
func (s *Scheduler) registerExpireHoldsJob() error {
	task := asynq.NewTask(shared.TypeExpireHolds, nil)

	_, err := s.scheduler.Register(
		"*/10 * * * *",
		task,
		asynq.Queue(shared.QueueCirculation),
		asynq.MaxRetry(2),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpireHolds job", err)
		return err
	}

	logger.Info("Registered ExpireHolds: every 10 minutes", nil)
	return nil
}

// Daily at 6 AM, before the library opens.
func (s *Scheduler) registerOverdueScanJob() error {
	task := asynq.NewTask(shared.TypeOverdueScan, nil)

	_, err := s.scheduler.Register(
		"0 6 * * *",
		task,
		asynq.Queue(shared.QueueCirculation),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register OverdueScan job", err)
		return err
	}

	logger.Info("Registered OverdueScan: daily at 6 AM", nil)
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
