package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightreserve/internal/domain"
	"github.com/Domenick1991/flightreserve/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service booking.BookingUseCase
}

type bookRequest struct {
	FlightID    int64  `json:"flight_id"`
	SeatCode    string `json:"seat_code"`
	Class       string `json:"class"`
	AmountCents int64  `json:"amount_cents"`
	PaymentMode string `json:"payment_mode"`
}

type bookResponse struct {
	ReservationID int64  `json:"reservation_id"`
	TicketID      int64  `json:"ticket_id"`
	SeatCode      string `json:"seat_code"`
	TicketCode    string `json:"ticket_code"`
}

type reservationSummaryResponse struct {
	ReservationID int64  `json:"reservation_id"`
	Status        string `json:"status"`
	BookedAt      string `json:"booked_at"`
	TicketID      int64  `json:"ticket_id"`
	SeatCode      string `json:"seat_code"`
	Class         string `json:"class"`
	TicketCode    string `json:"ticket_code"`
	FlightID      int64  `json:"flight_id"`
	FlightNumber  string `json:"flight_number"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
}

func NewReservationHandler(service booking.BookingUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.book)
	router.GET("", h.list)
	router.DELETE("/:id", h.cancel)
}

// passengerID reads the authenticated passenger id the upstream auth layer
// forwards on every request.
func passengerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.GetHeader("X-Passenger-ID"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid passenger id"})
		return 0, false
	}
	return id, true
}

func (h *ReservationHandler) book(c *gin.Context) {
	pid, ok := passengerID(c)
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmation, err := h.service.Book(c.Request.Context(), booking.BookInput{
		PassengerID: pid,
		FlightID:    req.FlightID,
		SeatCode:    req.SeatCode,
		Class:       domain.TravelClass(req.Class),
		AmountCents: req.AmountCents,
		Mode:        domain.PaymentMode(req.PaymentMode),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookResponse{
		ReservationID: confirmation.ReservationID,
		TicketID:      confirmation.TicketID,
		SeatCode:      confirmation.SeatCode,
		TicketCode:    confirmation.TicketCode,
	})
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	pid, ok := passengerID(c)
	if !ok {
		return
	}

	reservationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), reservationID, pid); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *ReservationHandler) list(c *gin.Context) {
	pid, ok := passengerID(c)
	if !ok {
		return
	}

	summaries, err := h.service.ListReservations(c.Request.Context(), pid)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]reservationSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, reservationSummaryResponse{
			ReservationID: s.ReservationID,
			Status:        string(s.Status),
			BookedAt:      s.BookedAt.Format(time.RFC3339),
			TicketID:      s.TicketID,
			SeatCode:      s.SeatCode,
			Class:         string(s.Class),
			TicketCode:    s.TicketCode,
			FlightID:      s.FlightID,
			FlightNumber:  s.FlightNumber,
			Origin:        s.Origin,
			Destination:   s.Destination,
			DepartureTime: s.DepartureTime.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, response)
}

// writeError maps engine error kinds to HTTP statuses. Every failure keeps
// its stable kind in the message so clients can retry sensibly.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrSeatTaken),
		errors.Is(err, domain.ErrFlightFull),
		errors.Is(err, domain.ErrInvalidFlight),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrBusy):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
