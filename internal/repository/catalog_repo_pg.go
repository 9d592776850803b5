package repository

import (
	"context"
	"errors"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// CatalogRepository supplies the populated airport/flight/instance/seat
// graph. Loading and seeding the catalog is owned by the data source, not
// by this service.
type CatalogRepository interface {
	AirportByCode(ctx context.Context, code string) (*domain.Airport, error)
	FlightByNumber(ctx context.Context, number string) (*domain.Flight, error)
	InstanceByID(ctx context.Context, id int64) (*domain.FlightInstance, error)
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{db: db}
}

// AirportByCode loads an airport together with its outgoing flights and
// their instances and seats.
func (r *PGCatalogRepository) AirportByCode(ctx context.Context, code string) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, `SELECT code, name FROM airports WHERE code=$1`, code)
	var airport domain.Airport
	if err := row.Scan(&airport.Code, &airport.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT number, departure_code, arrival_code, duration_minutes FROM flights WHERE departure_code=$1 ORDER BY number`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			flight        domain.Flight
			departureCode string
			arrivalCode   string
		)
		if err := rows.Scan(&flight.Number, &departureCode, &arrivalCode, &flight.DurationMinutes); err != nil {
			return nil, err
		}
		flight.Departure = &airport
		flight.Arrival = &domain.Airport{Code: arrivalCode}
		airport.Flights = append(airport.Flights, &flight)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, flight := range airport.Flights {
		instances, err := r.instancesForFlight(ctx, flight.Number)
		if err != nil {
			return nil, err
		}
		flight.Instances = instances
	}
	return &airport, nil
}

func (r *PGCatalogRepository) FlightByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT number, departure_code, arrival_code, duration_minutes FROM flights WHERE number=$1`, number)
	var (
		flight        domain.Flight
		departureCode string
		arrivalCode   string
	)
	if err := row.Scan(&flight.Number, &departureCode, &arrivalCode, &flight.DurationMinutes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	flight.Departure = &domain.Airport{Code: departureCode}
	flight.Arrival = &domain.Airport{Code: arrivalCode}

	instances, err := r.instancesForFlight(ctx, flight.Number)
	if err != nil {
		return nil, err
	}
	flight.Instances = instances
	return &flight, nil
}

func (r *PGCatalogRepository) InstanceByID(ctx context.Context, id int64) (*domain.FlightInstance, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_number, departure_time, gate, aircraft, status FROM flight_instances WHERE id=$1`, id)
	var instance domain.FlightInstance
	if err := row.Scan(&instance.ID, &instance.FlightNumber, &instance.DepartureTime, &instance.Gate, &instance.Aircraft, &instance.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	seats, err := r.seatsForInstance(ctx, instance.ID)
	if err != nil {
		return nil, err
	}
	instance.Seats = seats
	return &instance, nil
}

func (r *PGCatalogRepository) instancesForFlight(ctx context.Context, flightNumber string) ([]*domain.FlightInstance, error) {
	rows, err := r.db.Query(ctx, `SELECT id, flight_number, departure_time, gate, aircraft, status FROM flight_instances WHERE flight_number=$1 ORDER BY departure_time`, flightNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []*domain.FlightInstance
	for rows.Next() {
		var instance domain.FlightInstance
		if err := rows.Scan(&instance.ID, &instance.FlightNumber, &instance.DepartureTime, &instance.Gate, &instance.Aircraft, &instance.Status); err != nil {
			return nil, err
		}
		instances = append(instances, &instance)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, instance := range instances {
		seats, err := r.seatsForInstance(ctx, instance.ID)
		if err != nil {
			return nil, err
		}
		instance.Seats = seats
	}
	return instances, nil
}

func (r *PGCatalogRepository) seatsForInstance(ctx context.Context, instanceID int64) ([]*domain.FlightSeat, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_number, class, fare_cents, COALESCE(assigned_to, '') FROM flight_seats WHERE instance_id=$1 ORDER BY seat_number`, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []*domain.FlightSeat
	for rows.Next() {
		var seat domain.FlightSeat
		if err := rows.Scan(&seat.Number, &seat.Class, &seat.FareCents, &seat.AssignedTo); err != nil {
			return nil, err
		}
		seats = append(seats, &seat)
	}
	return seats, rows.Err()
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
