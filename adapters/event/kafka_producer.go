package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/config"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	UserEventsWriter messageWriter
	logger           logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	userWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Kafka.UserTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		// one event per request, flush without waiting for a batch
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{UserEventsWriter: userWriter, logger: log}, nil
}

// PublishUserEvent keys messages by user id so one user's events stay ordered.
func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, evt service.UserEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("cannot marshal user event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.UserID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
		},
	}
	if err := c.UserEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("cannot write user event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.UserEventsWriter != nil {
		if err := c.UserEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka writer", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
