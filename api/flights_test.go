package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) SearchByRoute(ctx context.Context, source, destination string, date time.Time) ([]*domain.FlightInstance, error) {
	args := m.Called(ctx, source, destination, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FlightInstance), args.Error(1)
}

func (m *MockCatalogUseCase) SearchByFlightNumber(ctx context.Context, number string) ([]*domain.FlightInstance, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FlightInstance), args.Error(1)
}

func (m *MockCatalogUseCase) InstanceByID(ctx context.Context, id int64) (*domain.FlightInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightInstance), args.Error(1)
}

func (m *MockCatalogUseCase) AvailableSeats(instance *domain.FlightInstance) []*domain.FlightSeat {
	args := m.Called(instance)
	return args.Get(0).([]*domain.FlightSeat)
}

func TestFlightHandler_searchByRoute(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights/search?from=SVO&to=LED&date=2026-09-01", nil)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	instances := []*domain.FlightInstance{
		{ID: 1, FlightNumber: "SU100", DepartureTime: date.Add(9 * time.Hour)},
	}
	mockService.On("SearchByRoute", c.Request.Context(), "SVO", "LED", date).Return(instances, nil)

	handler.searchByRoute(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SU100")

	mockService.AssertExpectations(t)
}

func TestFlightHandler_searchByRoute_BadDate(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights/search?from=SVO&to=LED&date=tomorrow", nil)

	handler.searchByRoute(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "SearchByRoute")
}

func TestFlightHandler_searchByNumber(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "number", Value: "SU100"}}
	c.Request = httptest.NewRequest("GET", "/flights/number/SU100", nil)

	mockService.On("SearchByFlightNumber", c.Request.Context(), "SU100").Return([]*domain.FlightInstance{{ID: 1, FlightNumber: "SU100"}}, nil)

	handler.searchByNumber(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_availableSeats(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("GET", "/flights/instances/7/seats", nil)

	instance := &domain.FlightInstance{ID: 7, Seats: []*domain.FlightSeat{{Number: "1A", Class: domain.SeatClassBusiness, FareCents: 60000}}}
	mockService.On("InstanceByID", c.Request.Context(), int64(7)).Return(instance, nil)
	mockService.On("AvailableSeats", instance).Return(instance.Seats)

	handler.availableSeats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1A")

	mockService.AssertExpectations(t)
}
