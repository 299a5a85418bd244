package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jaehyun-dev/portfolio-backend/internal/config"
)

const (
	TopicImageEvents = "image.events"

	ImageEventTypeUploaded = "image.uploaded"
	ImageEventTypeOrphaned = "image.orphaned"
)

// ImageEventPayload describes an image lifecycle event. Orphaned events name
// files whose URLs were dropped from an aggregate during reconciliation; the
// cleanup worker unlinks them from disk.
type ImageEventPayload struct {
	EventType string `json:"event_type"`
	FileName  string `json:"file_name"`
	URL       string `json:"url"`
}

type KafkaProducerClient struct {
	ImageEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	imageWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicImageEvents,
		Balancer: &kafka.LeastBytes{},
	}

	fmt.Println("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{ImageEventsWriter: imageWriter}, nil
}

func (c *KafkaProducerClient) PublishImageEvent(ctx context.Context, payload ImageEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal image event: %w", err)
	}

	return c.ImageEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.FileName),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.ImageEventsWriter != nil {
		c.ImageEventsWriter.Close()
	}
	fmt.Println("Closed Kafka Producers")
}
