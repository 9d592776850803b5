package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/avoronkov/aeroreserve/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service catalog.CatalogUseCase
}

type flightInstanceResponse struct {
	ID             int64  `json:"id"`
	FlightNumber   string `json:"flight_number"`
	DepartureTime  string `json:"departure_time"`
	Gate           string `json:"gate"`
	Aircraft       string `json:"aircraft"`
	Status         string `json:"status"`
	AvailableSeats int    `json:"available_seats"`
}

type seatResponse struct {
	Number    string `json:"number"`
	Class     string `json:"class"`
	FareCents int64  `json:"fare_cents"`
}

func NewFlightHandler(service catalog.CatalogUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.searchByRoute)
	router.GET("/number/:number", h.searchByNumber)
	router.GET("/instances/:id/seats", h.availableSeats)
}

func (h *FlightHandler) searchByRoute(c *gin.Context) {
	source := c.Query("from")
	destination := c.Query("to")
	if source == "" || destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	instances, err := h.service.SearchByRoute(c.Request.Context(), source, destination, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toInstanceResponses(instances))
}

func (h *FlightHandler) searchByNumber(c *gin.Context) {
	instances, err := h.service.SearchByFlightNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toInstanceResponses(instances))
}

func (h *FlightHandler) availableSeats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	instance, err := h.service.InstanceByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	seats := h.service.AvailableSeats(instance)
	response := make([]seatResponse, 0, len(seats))
	for _, seat := range seats {
		response = append(response, seatResponse{Number: seat.Number, Class: string(seat.Class), FareCents: seat.FareCents})
	}
	c.JSON(http.StatusOK, response)
}

func toInstanceResponses(instances []*domain.FlightInstance) []flightInstanceResponse {
	response := make([]flightInstanceResponse, 0, len(instances))
	for _, instance := range instances {
		response = append(response, flightInstanceResponse{
			ID:             instance.ID,
			FlightNumber:   instance.FlightNumber,
			DepartureTime:  instance.DepartureTime.Format(time.RFC3339),
			Gate:           instance.Gate,
			Aircraft:       instance.Aircraft,
			Status:         string(instance.Status),
			AvailableSeats: len(instance.AvailableSeats()),
		})
	}
	return response
}
