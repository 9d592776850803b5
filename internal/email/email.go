package email

import (
	"context"
	"fmt"

	"github.com/avoronkov/aeroreserve/internal/kafka"
)

// Sender delivers reservation notifications to the customer's email.
// Delivery is a stub: real SMTP wiring lives outside this service.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, msg kafka.NotificationMessage) error {
	fmt.Printf("send email %s to %s: %s\n", msg.ID, msg.Email, msg.Content)
	return nil
}
