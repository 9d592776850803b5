package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/avoronkov/aeroreserve/internal/kafka"
	"github.com/avoronkov/aeroreserve/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrSeatTaken            = errors.New("seat is already assigned to another passenger")
	ErrReservationCancelled = errors.New("reservation is cancelled")
	ErrAlreadyCancelled     = errors.New("reservation is already cancelled")
	ErrNotAwaitingPayment   = errors.New("reservation is not awaiting confirmation")
	ErrPaymentDeclined      = errors.New("payment was declined")
)

type ReservationUseCase interface {
	Create(ctx context.Context, customer domain.Customer, instance *domain.FlightInstance) (*domain.FlightReservation, error)
	AssignSeat(ctx context.Context, reservation *domain.FlightReservation, passenger domain.Passenger, seat *domain.FlightSeat) error
	Confirm(ctx context.Context, reservation *domain.FlightReservation, payment domain.Payment) error
	Cancel(ctx context.Context, reservation *domain.FlightReservation) error
	GetByNumber(ctx context.Context, number string) (*domain.FlightReservation, error)
}

// PaymentProcessor is the external payment oracle. A declined payment is
// reported as (false, nil); errors mean the attempt itself failed.
type PaymentProcessor interface {
	Process(ctx context.Context, payment domain.Payment) (bool, error)
}

// Notifier delivers a notification to the customer. Delivery is
// fire-and-forget: the workflow does not consume a delivery status.
type Notifier interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// SeatHolds is an optional distributed guard for seat assignment across
// processes.
type SeatHolds interface {
	AcquireSeatHold(ctx context.Context, instanceID int64, seatNumber string, ttl time.Duration) (bool, error)
	ReleaseSeatHold(ctx context.Context, instanceID int64, seatNumber string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type ReservationService struct {
	reservations repository.ReservationRepository
	payments     PaymentProcessor
	notifier     Notifier
	holds        SeatHolds
	producer     Producer
	eventsTopic  string
	holdTTL      time.Duration

	now   func() time.Time
	newID func() string

	mu            sync.Mutex
	instanceLocks map[int64]*sync.Mutex
}

type ReservationServiceOption func(*ReservationService)

func WithSeatHolds(holds SeatHolds, ttl time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		s.holds = holds
		s.holdTTL = ttl
	}
}

func WithEventProducer(producer Producer, topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

func WithClock(now func() time.Time) ReservationServiceOption {
	return func(s *ReservationService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.newID = newID
	}
}

func NewReservationService(
	reservations repository.ReservationRepository,
	payments PaymentProcessor,
	notifier Notifier,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		reservations:  reservations,
		payments:      payments,
		notifier:      notifier,
		holdTTL:       time.Minute,
		now:           time.Now,
		newID:         uuid.NewString,
		instanceLocks: make(map[int64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create registers a new reservation in status CREATED. No payment is taken
// and no seats are assigned yet.
func (s *ReservationService) Create(ctx context.Context, customer domain.Customer, instance *domain.FlightInstance) (*domain.FlightReservation, error) {
	if customer.Email == "" {
		return nil, errors.New("customer email is required")
	}

	reservation := &domain.FlightReservation{
		Number:     "RES-" + s.newID(),
		InstanceID: instance.ID,
		Customer:   customer,
		Status:     domain.ReservationStatusCreated,
		CreatedAt:  s.now(),
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "reservation_created", reservation)
	return reservation, nil
}

// AssignSeat binds the seat to the passenger within the reservation. It
// fails if the reservation is cancelled or the seat already belongs to a
// different passenger. Assignment is serialized per flight instance.
func (s *ReservationService) AssignSeat(ctx context.Context, reservation *domain.FlightReservation, passenger domain.Passenger, seat *domain.FlightSeat) error {
	if reservation.Status == domain.ReservationStatusCancelled {
		return ErrReservationCancelled
	}

	lock := s.instanceLock(reservation.InstanceID)
	lock.Lock()
	defer lock.Unlock()

	if seat.Assigned() {
		if seat.AssignedTo == passenger.PassportNumber {
			return nil
		}
		return ErrSeatTaken
	}

	held := false
	if s.holds != nil {
		ok, err := s.holds.AcquireSeatHold(ctx, reservation.InstanceID, seat.Number, s.holdTTL)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSeatTaken
		}
		held = true
	}

	assignment := domain.SeatAssignment{Passenger: passenger, Seat: seat}
	if err := s.reservations.SaveSeatAssignment(ctx, reservation.Number, assignment); err != nil {
		if held {
			_ = s.holds.ReleaseSeatHold(ctx, reservation.InstanceID, seat.Number)
		}
		if errors.Is(err, repository.ErrSeatConflict) {
			return ErrSeatTaken
		}
		return err
	}

	seat.AssignedTo = passenger.PassportNumber
	reservation.Assignments = append(reservation.Assignments, assignment)

	if held {
		_ = s.holds.ReleaseSeatHold(ctx, reservation.InstanceID, seat.Number)
	}
	return nil
}

// Confirm charges the payment and, on success, moves the reservation to
// CONFIRMED and notifies the customer. A declined payment leaves the
// reservation untouched and sends nothing.
func (s *ReservationService) Confirm(ctx context.Context, reservation *domain.FlightReservation, payment domain.Payment) error {
	lock := s.instanceLock(reservation.InstanceID)
	lock.Lock()
	defer lock.Unlock()

	switch reservation.Status {
	case domain.ReservationStatusCancelled:
		return ErrReservationCancelled
	case domain.ReservationStatusCreated:
	default:
		return ErrNotAwaitingPayment
	}

	ok, err := s.payments.Process(ctx, payment)
	if err != nil {
		return fmt.Errorf("process payment: %w", err)
	}
	if !ok {
		return ErrPaymentDeclined
	}

	if err := s.reservations.UpdateStatus(ctx, reservation.Number, domain.ReservationStatusConfirmed); err != nil {
		return err
	}
	reservation.Status = domain.ReservationStatusConfirmed

	s.notify(ctx, reservation, fmt.Sprintf("Your reservation %s has been confirmed.", reservation.Number))
	s.publishEvent(ctx, "reservation_confirmed", reservation)
	return nil
}

// Cancel moves a CREATED or CONFIRMED reservation to CANCELLED, frees its
// seats and notifies the customer. Cancelling an already-cancelled
// reservation fails with ErrAlreadyCancelled and sends nothing.
func (s *ReservationService) Cancel(ctx context.Context, reservation *domain.FlightReservation) error {
	lock := s.instanceLock(reservation.InstanceID)
	lock.Lock()
	defer lock.Unlock()

	if reservation.Status == domain.ReservationStatusCancelled {
		return ErrAlreadyCancelled
	}

	if err := s.reservations.UpdateStatus(ctx, reservation.Number, domain.ReservationStatusCancelled); err != nil {
		return err
	}
	reservation.Status = domain.ReservationStatusCancelled

	for _, assignment := range reservation.Assignments {
		assignment.Seat.AssignedTo = ""
		if s.holds != nil {
			_ = s.holds.ReleaseSeatHold(ctx, reservation.InstanceID, assignment.Seat.Number)
		}
	}
	if err := s.reservations.ReleaseSeats(ctx, reservation.Number); err != nil {
		log.Printf("release seats for reservation %s: %v", reservation.Number, err)
	}

	s.notify(ctx, reservation, fmt.Sprintf("Your reservation %s has been cancelled.", reservation.Number))
	s.publishEvent(ctx, "reservation_cancelled", reservation)
	return nil
}

func (s *ReservationService) GetByNumber(ctx context.Context, number string) (*domain.FlightReservation, error) {
	return s.reservations.GetByNumber(ctx, number)
}

func (s *ReservationService) notify(ctx context.Context, reservation *domain.FlightReservation, content string) {
	notification := domain.Notification{
		ID:        s.newID(),
		Content:   content,
		Email:     reservation.Customer.Email,
		CreatedAt: s.now(),
	}
	if err := s.notifier.Send(ctx, notification); err != nil {
		log.Printf("send notification for reservation %s: %v", reservation.Number, err)
	}
}

func (s *ReservationService) publishEvent(ctx context.Context, eventType string, reservation *domain.FlightReservation) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:              eventType,
		ReservationNumber: reservation.Number,
		InstanceID:        reservation.InstanceID,
		Email:             reservation.Customer.Email,
		Status:            string(reservation.Status),
		OccurredAt:        s.now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, reservation.Number, event); err != nil {
		log.Printf("publish %s event for reservation %s: %v", eventType, reservation.Number, err)
	}
}

func (s *ReservationService) instanceLock(instanceID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.instanceLocks[instanceID]
	if !ok {
		lock = &sync.Mutex{}
		s.instanceLocks[instanceID] = lock
	}
	return lock
}

var _ ReservationUseCase = (*ReservationService)(nil)
