package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/avoronkov/aeroreserve/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *domain.FlightReservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByNumber(ctx context.Context, number string) (*domain.FlightReservation, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightReservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, number string, status domain.ReservationStatus) error {
	args := m.Called(ctx, number, status)
	return args.Error(0)
}

func (m *MockReservationRepository) SaveSeatAssignment(ctx context.Context, number string, assignment domain.SeatAssignment) error {
	args := m.Called(ctx, number, assignment)
	return args.Error(0)
}

func (m *MockReservationRepository) ReleaseSeats(ctx context.Context, number string) error {
	args := m.Called(ctx, number)
	return args.Error(0)
}

type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) Process(ctx context.Context, payment domain.Payment) (bool, error) {
	args := m.Called(ctx, payment)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type MockSeatHolds struct {
	mock.Mock
}

func (m *MockSeatHolds) AcquireSeatHold(ctx context.Context, instanceID int64, seatNumber string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, instanceID, seatNumber, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeatHolds) ReleaseSeatHold(ctx context.Context, instanceID int64, seatNumber string) error {
	args := m.Called(ctx, instanceID, seatNumber)
	return args.Error(0)
}

var fixedTime = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo repository.ReservationRepository, payments PaymentProcessor, notifier Notifier, opts ...ReservationServiceOption) *ReservationService {
	ids := 0
	opts = append(opts,
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string {
			ids++
			return map[int]string{1: "id-1", 2: "id-2", 3: "id-3"}[ids]
		}),
	)
	return NewReservationService(repo, payments, notifier, opts...)
}

func testInstance() *domain.FlightInstance {
	return &domain.FlightInstance{
		ID:           7,
		FlightNumber: "SU100",
		Seats: []*domain.FlightSeat{
			{Number: "1A", Class: domain.SeatClassBusiness, FareCents: 60000},
			{Number: "10C", Class: domain.SeatClassEconomy, FareCents: 15000},
		},
	}
}

func TestReservationService_Create(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, &MockNotifier{})

	ctx := context.Background()
	customer := domain.Customer{Name: "Ivan", Email: "ivan@example.com"}

	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	reservation, err := service.Create(ctx, customer, testInstance())

	assert.NoError(t, err)
	assert.Equal(t, "RES-id-1", reservation.Number)
	assert.Equal(t, domain.ReservationStatusCreated, reservation.Status)
	assert.Equal(t, fixedTime, reservation.CreatedAt)
	assert.Equal(t, int64(7), reservation.InstanceID)
	assert.Empty(t, reservation.Assignments)

	mockRepo.AssertExpectations(t)
}

func TestReservationService_Create_RequiresEmail(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, &MockNotifier{})

	reservation, err := service.Create(context.Background(), domain.Customer{Name: "Ivan"}, testInstance())

	assert.Error(t, err)
	assert.Nil(t, reservation)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestReservationService_AssignSeat_Success(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, &MockNotifier{})

	ctx := context.Background()
	instance := testInstance()
	reservation := &domain.FlightReservation{Number: "RES-1", InstanceID: 7, Status: domain.ReservationStatusCreated}
	passenger := domain.Passenger{Name: "Anna", PassportNumber: "P777"}

	mockRepo.On("SaveSeatAssignment", ctx, "RES-1", mock.Anything).Return(nil).Once()

	err := service.AssignSeat(ctx, reservation, passenger, instance.Seats[0])

	assert.NoError(t, err)
	assert.Equal(t, "P777", instance.Seats[0].AssignedTo)
	assert.Len(t, reservation.Assignments, 1)
	assert.Nil(t, reservation.SeatFor("P000"))
	assert.Equal(t, instance.Seats[0], reservation.SeatFor("P777"))

	mockRepo.AssertExpectations(t)
}

func TestReservationService_AssignSeat_SeatTaken(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, &MockNotifier{})

	ctx := context.Background()
	seat := &domain.FlightSeat{Number: "1A", AssignedTo: "P111"}
	reservation := &domain.FlightReservation{Number: "RES-1", InstanceID: 7, Status: domain.ReservationStatusCreated}

	err := service.AssignSeat(ctx, reservation, domain.Passenger{PassportNumber: "P222"}, seat)

	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Equal(t, "P111", seat.AssignedTo)
	assert.Empty(t, reservation.Assignments)
	mockRepo.AssertNotCalled(t, "SaveSeatAssignment")
}

func TestReservationService_AssignSeat_SamePassengerIsNoop(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, &MockNotifier{})

	seat := &domain.FlightSeat{Number: "1A", AssignedTo: "P111"}
	reservation := &domain.FlightReservation{Number: "RES-1", InstanceID: 7, Status: domain.ReservationStatusCreated}

	err := service.AssignSeat(context.Background(), reservation, domain.Passenger{PassportNumber: "P111"}, seat)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "SaveSeatAssignment")
}

func TestReservationService_AssignSeat_CancelledReservation(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, &MockNotifier{})

	seat := &domain.FlightSeat{Number: "1A"}
	reservation := &domain.FlightReservation{Number: "RES-1", InstanceID: 7, Status: domain.ReservationStatusCancelled}

	err := service.AssignSeat(context.Background(), reservation, domain.Passenger{PassportNumber: "P111"}, seat)

	assert.ErrorIs(t, err, ErrReservationCancelled)
	assert.False(t, seat.Assigned())
	mockRepo.AssertNotCalled(t, "SaveSeatAssignment")
}

func TestReservationService_AssignSeat_HoldContention(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockHolds := &MockSeatHolds{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, &MockNotifier{},
		WithSeatHolds(mockHolds, time.Minute))

	ctx := context.Background()
	seat := &domain.FlightSeat{Number: "1A"}
	reservation := &domain.FlightReservation{Number: "RES-1", InstanceID: 7, Status: domain.ReservationStatusCreated}

	mockHolds.On("AcquireSeatHold", ctx, int64(7), "1A", time.Minute).Return(false, nil).Once()

	err := service.AssignSeat(ctx, reservation, domain.Passenger{PassportNumber: "P111"}, seat)

	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.False(t, seat.Assigned())

	mockHolds.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "SaveSeatAssignment")
}

func TestReservationService_AssignSeat_RepositoryConflict(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockHolds := &MockSeatHolds{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, &MockNotifier{},
		WithSeatHolds(mockHolds, time.Minute))

	ctx := context.Background()
	seat := &domain.FlightSeat{Number: "1A"}
	reservation := &domain.FlightReservation{Number: "RES-1", InstanceID: 7, Status: domain.ReservationStatusCreated}

	mockHolds.On("AcquireSeatHold", ctx, int64(7), "1A", time.Minute).Return(true, nil).Once()
	mockHolds.On("ReleaseSeatHold", ctx, int64(7), "1A").Return(nil).Once()
	mockRepo.On("SaveSeatAssignment", ctx, "RES-1", mock.Anything).Return(repository.ErrSeatConflict).Once()

	err := service.AssignSeat(ctx, reservation, domain.Passenger{PassportNumber: "P111"}, seat)

	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.False(t, seat.Assigned())
	assert.Empty(t, reservation.Assignments)

	mockHolds.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestReservationService_Confirm_Success(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockPayments := &MockPaymentProcessor{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, mockPayments, mockNotifier)

	ctx := context.Background()
	reservation := &domain.FlightReservation{
		Number:     "RES-42",
		InstanceID: 7,
		Customer:   domain.Customer{Name: "Ivan", Email: "ivan@example.com"},
		Status:     domain.ReservationStatusCreated,
	}
	payment := domain.Payment{TransactionID: "tx-1", AmountCents: 15000, Method: domain.PaymentMethodCreditCard}

	mockPayments.On("Process", ctx, payment).Return(true, nil).Once()
	mockRepo.On("UpdateStatus", ctx, "RES-42", domain.ReservationStatusConfirmed).Return(nil).Once()
	mockNotifier.On("Send", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Email == "ivan@example.com" && n.Content == "Your reservation RES-42 has been confirmed."
	})).Return(nil).Once()

	err := service.Confirm(ctx, reservation, payment)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusConfirmed, reservation.Status)

	mockPayments.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
	mockNotifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestReservationService_Confirm_PaymentDeclined(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockPayments := &MockPaymentProcessor{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, mockPayments, mockNotifier)

	ctx := context.Background()
	reservation := &domain.FlightReservation{
		Number:     "RES-42",
		InstanceID: 7,
		Customer:   domain.Customer{Email: "ivan@example.com"},
		Status:     domain.ReservationStatusCreated,
	}
	payment := domain.Payment{TransactionID: "tx-1", AmountCents: 15000}

	mockPayments.On("Process", ctx, payment).Return(false, nil).Once()

	err := service.Confirm(ctx, reservation, payment)

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, domain.ReservationStatusCreated, reservation.Status)

	mockRepo.AssertNotCalled(t, "UpdateStatus")
	mockNotifier.AssertNotCalled(t, "Send")
}

func TestReservationService_Confirm_PaymentError(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockPayments := &MockPaymentProcessor{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, mockPayments, mockNotifier)

	ctx := context.Background()
	reservation := &domain.FlightReservation{Number: "RES-42", InstanceID: 7, Status: domain.ReservationStatusCreated}
	payment := domain.Payment{TransactionID: "tx-1", AmountCents: 15000}

	mockPayments.On("Process", ctx, payment).Return(false, errors.New("gateway unavailable")).Once()

	err := service.Confirm(ctx, reservation, payment)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, domain.ReservationStatusCreated, reservation.Status)
	mockNotifier.AssertNotCalled(t, "Send")
}

func TestReservationService_Confirm_AlreadyConfirmed(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockPayments := &MockPaymentProcessor{}
	service := newTestService(mockRepo, mockPayments, &MockNotifier{})

	reservation := &domain.FlightReservation{Number: "RES-42", InstanceID: 7, Status: domain.ReservationStatusConfirmed}

	err := service.Confirm(context.Background(), reservation, domain.Payment{})

	assert.ErrorIs(t, err, ErrNotAwaitingPayment)
	mockPayments.AssertNotCalled(t, "Process")
}

func TestReservationService_Cancel_FromCreated(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, mockNotifier)

	ctx := context.Background()
	seat := &domain.FlightSeat{Number: "1A", AssignedTo: "P777"}
	reservation := &domain.FlightReservation{
		Number:      "RES-42",
		InstanceID:  7,
		Customer:    domain.Customer{Email: "ivan@example.com"},
		Status:      domain.ReservationStatusCreated,
		Assignments: []domain.SeatAssignment{{Passenger: domain.Passenger{PassportNumber: "P777"}, Seat: seat}},
	}

	mockRepo.On("UpdateStatus", ctx, "RES-42", domain.ReservationStatusCancelled).Return(nil).Once()
	mockRepo.On("ReleaseSeats", ctx, "RES-42").Return(nil).Once()
	mockNotifier.On("Send", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Email == "ivan@example.com" && n.Content == "Your reservation RES-42 has been cancelled."
	})).Return(nil).Once()

	err := service.Cancel(ctx, reservation)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, reservation.Status)
	assert.False(t, seat.Assigned())

	mockRepo.AssertExpectations(t)
	mockNotifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestReservationService_Cancel_FromConfirmed(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, mockNotifier)

	ctx := context.Background()
	reservation := &domain.FlightReservation{
		Number:     "RES-42",
		InstanceID: 7,
		Customer:   domain.Customer{Email: "ivan@example.com"},
		Status:     domain.ReservationStatusConfirmed,
	}

	mockRepo.On("UpdateStatus", ctx, "RES-42", domain.ReservationStatusCancelled).Return(nil).Once()
	mockRepo.On("ReleaseSeats", ctx, "RES-42").Return(nil).Once()
	mockNotifier.On("Send", ctx, mock.Anything).Return(nil).Once()

	err := service.Cancel(ctx, reservation)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, reservation.Status)
}

func TestReservationService_Cancel_AlreadyCancelled(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, &MockPaymentProcessor{}, mockNotifier)

	reservation := &domain.FlightReservation{Number: "RES-42", InstanceID: 7, Status: domain.ReservationStatusCancelled}

	err := service.Cancel(context.Background(), reservation)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	mockRepo.AssertNotCalled(t, "UpdateStatus")
	mockNotifier.AssertNotCalled(t, "Send")
}

// Full workflow over the in-memory repository: create, assign a seat,
// confirm with a succeeding payment, then cancel.
func TestReservationService_EndToEnd(t *testing.T) {
	repo := repository.NewMemoryReservationRepository()
	mockPayments := &MockPaymentProcessor{}
	mockNotifier := &MockNotifier{}
	service := NewReservationService(repo, mockPayments, mockNotifier)

	ctx := context.Background()
	instance := testInstance()
	customer := domain.Customer{Name: "Ivan", Email: "ivan@example.com"}

	reservation, err := service.Create(ctx, customer, instance)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCreated, reservation.Status)

	fetched, err := service.GetByNumber(ctx, reservation.Number)
	assert.NoError(t, err)
	assert.Equal(t, reservation, fetched)

	passenger := domain.Passenger{Name: "Anna", PassportNumber: "P777"}
	assert.NoError(t, service.AssignSeat(ctx, reservation, passenger, instance.Seats[1]))
	assert.Equal(t, int64(15000), reservation.TotalFareCents())

	mockPayments.On("Process", ctx, mock.Anything).Return(true, nil).Once()
	mockNotifier.On("Send", ctx, mock.Anything).Return(nil).Twice()

	err = service.Confirm(ctx, reservation, domain.Payment{TransactionID: "tx", AmountCents: reservation.TotalFareCents()})
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusConfirmed, reservation.Status)

	err = service.Cancel(ctx, reservation)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, reservation.Status)
	assert.False(t, instance.Seats[1].Assigned())

	mockNotifier.AssertNumberOfCalls(t, "Send", 2)
}
