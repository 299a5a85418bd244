package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	"github.com/jaehyun-dev/portfolio-backend/adapters/media_storage"
	"github.com/jaehyun-dev/portfolio-backend/internal/config"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

// The cleanup worker consumes image events and unlinks files that no
// aggregate references anymore. Uploaded events are informational only.
func main() {
	fmt.Println("Starting Portfolio Cleanup Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	imageStore := media_storage.NewLocalStore(cfg, appLogger)

	// Kafka Consumer
	imageConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicImageEvents,
		GroupID:  "image-cleanup-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer imageConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicImageEvents)

	ctx := context.Background()
	for {
		msg, err := imageConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		var payload event.ImageEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			commitMessage(imageConsumer, msg)
			continue
		}

		if payload.EventType != event.ImageEventTypeOrphaned {
			commitMessage(imageConsumer, msg)
			continue
		}

		log.Printf("Removing orphaned image: %s", payload.FileName)
		if err := imageStore.Remove(ctx, payload.FileName); err != nil {
			log.Printf("ERROR: Failed to remove file %s: %v", payload.FileName, err)
			continue
		}

		commitMessage(imageConsumer, msg)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}
