package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodCash       PaymentMethod = "CASH"
)

// Payment is a payment attempt tied to a reservation.
type Payment struct {
	TransactionID string
	AmountCents   int64
	Method        PaymentMethod
	Status        PaymentStatus
	Timestamp     time.Time
}

// Notification is a one-way message delivered to a customer's email as a
// side effect of a reservation state change.
type Notification struct {
	ID        string
	Content   string
	Email     string
	CreatedAt time.Time
}
