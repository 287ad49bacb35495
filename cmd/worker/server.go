package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"library-backend/internal/shared"
	"library-backend/pkg/container"
	"library-backend/pkg/logger"
)

func startAsynqServer(c *container.Container, handlers *handlerRegistry) *asynq.Server {
	mux := asynq.NewServeMux()
	handlers.register(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				shared.QueueCirculation: 6,
				shared.QueueCatalog:     3,
				"default":               1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed: "+task.Type(), err)
			}),
		},
	)

	go func() {
		logger.Info("Worker starting", nil)
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Worker failed: %v", err)
		}
	}()

	return srv
}
