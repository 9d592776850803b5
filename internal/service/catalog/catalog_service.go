package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/avoronkov/aeroreserve/internal/repository"
)

type CatalogUseCase interface {
	SearchByRoute(ctx context.Context, source, destination string, date time.Time) ([]*domain.FlightInstance, error)
	SearchByFlightNumber(ctx context.Context, number string) ([]*domain.FlightInstance, error)
	InstanceByID(ctx context.Context, id int64) (*domain.FlightInstance, error)
	AvailableSeats(instance *domain.FlightInstance) []*domain.FlightSeat
}

type SearchCache interface {
	GetRouteSearch(ctx context.Context, source, destination string, date time.Time) ([]*domain.FlightInstance, error)
	SetRouteSearch(ctx context.Context, source, destination string, date time.Time, instances []*domain.FlightInstance) error
}

type CatalogService struct {
	repo  repository.CatalogRepository
	cache SearchCache
}

func NewCatalogService(repo repository.CatalogRepository, cache SearchCache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

// SearchByRoute returns every instance of a flight from source to
// destination departing on the given date. An unknown airport or a route
// with no service yields an empty result, not an error.
func (s *CatalogService) SearchByRoute(ctx context.Context, source, destination string, date time.Time) ([]*domain.FlightInstance, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRouteSearch(ctx, source, destination, date); err == nil && cached != nil {
			return cached, nil
		}
	}

	airport, err := s.repo.AirportByCode(ctx, source)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []*domain.FlightInstance{}, nil
		}
		return nil, err
	}

	result := make([]*domain.FlightInstance, 0)
	for _, flight := range airport.Flights {
		if flight.Arrival == nil || flight.Arrival.Code != destination {
			continue
		}
		for _, instance := range flight.Instances {
			if sameDate(instance.DepartureTime, date) {
				result = append(result, instance)
			}
		}
	}

	if s.cache != nil {
		_ = s.cache.SetRouteSearch(ctx, source, destination, date, result)
	}
	return result, nil
}

// SearchByFlightNumber matches on exact flight-number equality.
func (s *CatalogService) SearchByFlightNumber(ctx context.Context, number string) ([]*domain.FlightInstance, error) {
	flight, err := s.repo.FlightByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []*domain.FlightInstance{}, nil
		}
		return nil, err
	}
	if flight.Instances == nil {
		return []*domain.FlightInstance{}, nil
	}
	return flight.Instances, nil
}

func (s *CatalogService) InstanceByID(ctx context.Context, id int64) (*domain.FlightInstance, error) {
	return s.repo.InstanceByID(ctx, id)
}

// AvailableSeats is a pure read over the instance's seats.
func (s *CatalogService) AvailableSeats(instance *domain.FlightInstance) []*domain.FlightSeat {
	return instance.AvailableSeats()
}

// sameDate compares calendar days in UTC, so instances scanned in a
// non-UTC zone line up with the query date.
func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.UTC().Date()
	y2, m2, d2 := b.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

var _ CatalogUseCase = (*CatalogService)(nil)
