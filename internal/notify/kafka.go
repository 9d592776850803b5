package notify

import (
	"context"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/avoronkov/aeroreserve/internal/kafka"
)

// KafkaNotifier hands notifications to the notifications topic; the worker
// process consumes them and performs the actual delivery.
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaNotifier(producer *kafka.Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) Send(ctx context.Context, notification domain.Notification) error {
	msg := kafka.NotificationMessage{
		ID:        notification.ID,
		Content:   notification.Content,
		Email:     notification.Email,
		CreatedAt: notification.CreatedAt,
	}
	return n.producer.Publish(ctx, n.topic, notification.ID, msg)
}
