package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/avoronkov/aeroreserve/internal/repository"
	"github.com/avoronkov/aeroreserve/internal/service/catalog"
	"github.com/avoronkov/aeroreserve/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservations reservation.ReservationUseCase
	catalog      catalog.CatalogUseCase
}

type createReservationRequest struct {
	InstanceID    int64  `json:"instance_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type assignSeatRequest struct {
	PassengerName  string `json:"passenger_name"`
	PassportNumber string `json:"passport_number"`
	SeatNumber     string `json:"seat_number"`
}

type confirmRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
}

type reservationResponse struct {
	Number         string   `json:"number"`
	InstanceID     int64    `json:"instance_id"`
	CustomerEmail  string   `json:"customer_email"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
	Seats          []string `json:"seats"`
	TotalFareCents int64    `json:"total_fare_cents"`
}

func NewReservationHandler(reservations reservation.ReservationUseCase, catalog catalog.CatalogUseCase) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, catalog: catalog}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:number", h.get)
	router.POST("/:number/seats", h.assignSeat)
	router.POST("/:number/confirm", h.confirm)
	router.DELETE("/:number", h.cancel)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instance, err := h.catalog.InstanceByID(c.Request.Context(), req.InstanceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "flight instance not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	customer := domain.Customer{Name: req.CustomerName, Email: req.CustomerEmail}
	created, err := h.reservations.Create(c.Request.Context(), customer, instance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(created))
}

func (h *ReservationHandler) get(c *gin.Context) {
	found, err := h.reservations.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(found))
}

func (h *ReservationHandler) assignSeat(c *gin.Context) {
	var req assignSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.reservations.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	instance, err := h.catalog.InstanceByID(c.Request.Context(), found.InstanceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	seat := instance.SeatByNumber(req.SeatNumber)
	if seat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "seat not found"})
		return
	}

	passenger := domain.Passenger{Name: req.PassengerName, PassportNumber: req.PassportNumber}
	if err := h.reservations.AssignSeat(c.Request.Context(), found, passenger, seat); err != nil {
		c.JSON(statusForWorkflowError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(found))
}

func (h *ReservationHandler) confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.reservations.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payment := domain.Payment{
		TransactionID: uuid.NewString(),
		AmountCents:   req.AmountCents,
		Method:        domain.PaymentMethod(req.Method),
		Status:        domain.PaymentStatusPending,
		Timestamp:     time.Now(),
	}
	if err := h.reservations.Confirm(c.Request.Context(), found, payment); err != nil {
		c.JSON(statusForWorkflowError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(found))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	found, err := h.reservations.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.reservations.Cancel(c.Request.Context(), found); err != nil {
		c.JSON(statusForWorkflowError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(found))
}

func statusForWorkflowError(err error) int {
	switch {
	case errors.Is(err, reservation.ErrSeatTaken),
		errors.Is(err, reservation.ErrReservationCancelled),
		errors.Is(err, reservation.ErrAlreadyCancelled),
		errors.Is(err, reservation.ErrNotAwaitingPayment):
		return http.StatusConflict
	case errors.Is(err, reservation.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func toReservationResponse(r *domain.FlightReservation) reservationResponse {
	seats := make([]string, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		seats = append(seats, a.Seat.Number)
	}
	return reservationResponse{
		Number:         r.Number,
		InstanceID:     r.InstanceID,
		CustomerEmail:  r.Customer.Email,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		Seats:          seats,
		TotalFareCents: r.TotalFareCents(),
	}
}
