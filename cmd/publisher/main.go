// Command main runs the scheduled-post publisher worker.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ripple/internal/bootstrap"
	"ripple/internal/config"
	"ripple/internal/repository"
	"ripple/internal/scheduler"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	var queue *scheduler.Queue
	if redisClient != nil {
		queue = scheduler.NewQueue(redisClient)
	} else {
		log.Println("Redis unavailable; publisher falls back to due-scan polling only")
	}

	schedRepo := repository.NewScheduledPostRepository(db)
	publisher := scheduler.NewPublisher(
		schedRepo, queue, cfg.PublisherConsumer, cfg.PublisherMaxAttempts,
		scheduler.WithPollInterval(cfg.PublisherPollInterval()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down publisher...")
		cancel()
	}()

	log.Printf("Publisher %s starting...", cfg.PublisherConsumer)
	if err := publisher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Publisher stopped: %v", err)
	}
}
