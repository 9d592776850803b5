package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/avoronkov/aeroreserve/internal/domain"
)

// MemoryReservationRepository keeps reservations for the lifetime of the
// process. Useful when no database is configured and for tests.
type MemoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]*domain.FlightReservation
}

func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{reservations: make(map[string]*domain.FlightReservation)}
}

func (r *MemoryReservationRepository) Create(ctx context.Context, reservation *domain.FlightReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[reservation.Number]; ok {
		return errors.New("reservation number already exists")
	}
	r.reservations[reservation.Number] = reservation
	return nil
}

func (r *MemoryReservationRepository) GetByNumber(ctx context.Context, number string) (*domain.FlightReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reservation, ok := r.reservations[number]
	if !ok {
		return nil, ErrNotFound
	}
	return reservation, nil
}

func (r *MemoryReservationRepository) UpdateStatus(ctx context.Context, number string, status domain.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[number]
	if !ok {
		return ErrNotFound
	}
	reservation.Status = status
	return nil
}

func (r *MemoryReservationRepository) SaveSeatAssignment(ctx context.Context, number string, assignment domain.SeatAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[number]; !ok {
		return ErrNotFound
	}
	// The workflow mutates the shared domain objects; nothing further to
	// persist here.
	return nil
}

func (r *MemoryReservationRepository) ReleaseSeats(ctx context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[number]; !ok {
		return ErrNotFound
	}
	return nil
}

var _ ReservationRepository = (*MemoryReservationRepository)(nil)
