package repository

import (
	"context"
	"errors"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSeatConflict = errors.New("seat is already assigned")

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.FlightReservation) error
	GetByNumber(ctx context.Context, number string) (*domain.FlightReservation, error)
	UpdateStatus(ctx context.Context, number string, status domain.ReservationStatus) error
	SaveSeatAssignment(ctx context.Context, number string, assignment domain.SeatAssignment) error
	ReleaseSeats(ctx context.Context, number string) error
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) Create(ctx context.Context, reservation *domain.FlightReservation) error {
	_, err := r.db.Exec(ctx, `INSERT INTO reservations (number, instance_id, customer_name, customer_email, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		reservation.Number, reservation.InstanceID, reservation.Customer.Name, reservation.Customer.Email, reservation.Status, reservation.CreatedAt)
	return err
}

func (r *PGReservationRepository) GetByNumber(ctx context.Context, number string) (*domain.FlightReservation, error) {
	row := r.db.QueryRow(ctx, `SELECT number, instance_id, customer_name, customer_email, status, created_at FROM reservations WHERE number=$1`, number)
	var reservation domain.FlightReservation
	if err := row.Scan(&reservation.Number, &reservation.InstanceID, &reservation.Customer.Name, &reservation.Customer.Email, &reservation.Status, &reservation.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT rs.passenger_name, rs.passport_number, s.seat_number, s.class, s.fare_cents, COALESCE(s.assigned_to, '')
		FROM reservation_seats rs
		JOIN flight_seats s ON s.instance_id = rs.instance_id AND s.seat_number = rs.seat_number
		WHERE rs.reservation_number=$1 ORDER BY s.seat_number`, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			passenger domain.Passenger
			seat      domain.FlightSeat
		)
		if err := rows.Scan(&passenger.Name, &passenger.PassportNumber, &seat.Number, &seat.Class, &seat.FareCents, &seat.AssignedTo); err != nil {
			return nil, err
		}
		reservation.Assignments = append(reservation.Assignments, domain.SeatAssignment{Passenger: passenger, Seat: &seat})
	}
	return &reservation, rows.Err()
}

func (r *PGReservationRepository) UpdateStatus(ctx context.Context, number string, status domain.ReservationStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE reservations SET status=$1 WHERE number=$2`, status, number)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveSeatAssignment marks the seat taken and records the passenger in one
// transaction. The guarded UPDATE keeps two reservations from claiming the
// same seat.
func (r *PGReservationRepository) SaveSeatAssignment(ctx context.Context, number string, assignment domain.SeatAssignment) error {
	var instanceID int64
	if err := r.db.QueryRow(ctx, `SELECT instance_id FROM reservations WHERE number=$1`, number).Scan(&instanceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE flight_seats SET assigned_to=$1 WHERE instance_id=$2 AND seat_number=$3 AND (assigned_to IS NULL OR assigned_to='' OR assigned_to=$1)`,
		assignment.Passenger.PassportNumber, instanceID, assignment.Seat.Number)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSeatConflict
	}

	if _, err := tx.Exec(ctx, `INSERT INTO reservation_seats (reservation_number, instance_id, seat_number, passenger_name, passport_number)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (reservation_number, instance_id, seat_number) DO NOTHING`,
		number, instanceID, assignment.Seat.Number, assignment.Passenger.Name, assignment.Passenger.PassportNumber); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReleaseSeats frees every seat held by the reservation. Assignment rows
// are kept for history.
func (r *PGReservationRepository) ReleaseSeats(ctx context.Context, number string) error {
	_, err := r.db.Exec(ctx, `UPDATE flight_seats s SET assigned_to=''
		FROM reservation_seats rs
		WHERE rs.reservation_number=$1 AND s.instance_id = rs.instance_id AND s.seat_number = rs.seat_number`, number)
	return err
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
