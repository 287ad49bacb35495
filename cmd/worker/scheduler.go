package main

import (
	"log"

	"library-backend/internal/infrastructure/queue"
	"library-backend/pkg/container"
)

func startScheduler(c *container.Container) *queue.Scheduler {
	scheduler := queue.NewScheduler(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	if err := scheduler.RegisterCirculationJobs(); err != nil {
		log.Fatalf("Failed to register scheduled jobs: %v", err)
	}

	go func() {
		if err := scheduler.Start(); err != nil {
			log.Fatalf("Scheduler failed: %v", err)
		}
	}()

	return scheduler
}
