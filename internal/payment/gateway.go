package payment

import (
	"context"
	"errors"
	"log"

	"github.com/avoronkov/aeroreserve/internal/domain"
)

// Gateway is a stand-in for the external payment provider. It accepts any
// well-formed payment; the real provider integration lives outside this
// service.
type Gateway struct{}

func NewGateway() *Gateway {
	return &Gateway{}
}

func (g *Gateway) Process(ctx context.Context, payment domain.Payment) (bool, error) {
	if payment.AmountCents <= 0 {
		return false, errors.New("payment amount must be positive")
	}
	log.Printf("processed payment %s for %d cents via %s", payment.TransactionID, payment.AmountCents, payment.Method)
	return true, nil
}
