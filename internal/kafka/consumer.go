package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/avoronkov/aeroreserve/config"
	"github.com/segmentio/kafka-go"
)

// NotificationHandler delivers one decoded notification. A handler error
// is logged and the message is skipped; delivery is fire-and-forget.
type NotificationHandler func(ctx context.Context, msg NotificationMessage) error

type Consumer struct {
	reader *kafka.Reader
}

// NewNotificationConsumer joins the consumer group on the notifications
// topic.
func NewNotificationConsumer(cfg config.KafkaConfig) *Consumer {
	heartbeat := time.Duration(cfg.HeartbeatIntervalSeconds) * time.Second
	if heartbeat == 0 {
		heartbeat = 3 * time.Second
	}
	session := time.Duration(cfg.SessionTimeoutSeconds) * time.Second
	if session == 0 {
		session = 30 * time.Second
	}

	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			GroupID:           cfg.GroupID,
			Topic:             cfg.NotificationsTopic,
			HeartbeatInterval: heartbeat,
			SessionTimeout:    session,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads notifications until the context is canceled or the reader
// fails. Undecodable messages and handler errors do not stop the loop.
func (c *Consumer) Consume(ctx context.Context, handler NotificationHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		dispatch(ctx, msg, handler)
	}
}

func dispatch(ctx context.Context, msg kafka.Message, handler NotificationHandler) {
	var notification NotificationMessage
	if err := json.Unmarshal(msg.Value, &notification); err != nil {
		log.Printf("decode notification %s: %v", string(msg.Key), err)
		return
	}
	if err := handler(ctx, notification); err != nil {
		log.Printf("deliver notification %s to %s: %v", notification.ID, notification.Email, err)
	}
}
