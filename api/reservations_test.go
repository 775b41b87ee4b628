package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightreserve/internal/domain"
	"github.com/Domenick1991/flightreserve/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Book(ctx context.Context, input booking.BookInput) (*domain.BookingConfirmation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingConfirmation), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, reservationID, passengerID int64) error {
	args := m.Called(ctx, reservationID, passengerID)
	return args.Error(0)
}

func (m *MockBookingUseCase) ListReservations(ctx context.Context, passengerID int64) ([]domain.ReservationSummary, error) {
	args := m.Called(ctx, passengerID)
	return args.Get(0).([]domain.ReservationSummary), args.Error(1)
}

func newBookRequest(t *testing.T, passengerID string) *http.Request {
	t.Helper()
	body, _ := json.Marshal(bookRequest{
		FlightID:    4,
		SeatCode:    "1A",
		Class:       "ECONOMY",
		AmountCents: 125000,
		PaymentMode: "CARD",
	})
	req := httptest.NewRequest("POST", "/api/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if passengerID != "" {
		req.Header.Set("X-Passenger-ID", passengerID)
	}
	return req
}

func TestReservationHandler_book(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newBookRequest(t, "7")

	input := booking.BookInput{
		PassengerID: 7,
		FlightID:    4,
		SeatCode:    "1A",
		Class:       domain.TravelClassEconomy,
		AmountCents: 125000,
		Mode:        domain.PaymentModeCard,
	}
	confirmation := &domain.BookingConfirmation{
		ReservationID: 100,
		TicketID:      200,
		SeatCode:      "1A",
		TicketCode:    "e4c6a7f0-0000-0000-0000-000000000001",
	}

	mockService.On("Book", c.Request.Context(), input).Return(confirmation, nil)

	handler.book(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), response.ReservationID)
	assert.Equal(t, "1A", response.SeatCode)
	assert.Equal(t, confirmation.TicketCode, response.TicketCode)

	mockService.AssertExpectations(t)
}

func TestReservationHandler_book_missingPassengerHeader(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newBookRequest(t, "")

	handler.book(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Book", mock.Anything, mock.Anything)
}

// Таблица соответствия ошибок движка HTTP-статусам
func TestReservationHandler_book_errorMapping(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "Invalid input", err: domain.ErrInvalidInput, expectedStatus: http.StatusBadRequest},
		{name: "Invalid flight", err: domain.ErrInvalidFlight, expectedStatus: http.StatusConflict},
		{name: "Seat taken", err: domain.ErrSeatTaken, expectedStatus: http.StatusConflict},
		{name: "Flight full", err: domain.ErrFlightFull, expectedStatus: http.StatusConflict},
		{name: "Busy", err: domain.ErrBusy, expectedStatus: http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewReservationHandler(mockService)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = newBookRequest(t, "7")

			mockService.On("Book", c.Request.Context(), mock.Anything).Return(nil, tc.err)

			handler.book(c)

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestReservationHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "100"}}
	c.Request = httptest.NewRequest("DELETE", "/api/reservations/100", nil)
	c.Request.Header.Set("X-Passenger-ID", "7")

	mockService.On("Cancel", c.Request.Context(), int64(100), int64(7)).Return(nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestReservationHandler_cancel_errorMapping(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "Not found", err: domain.ErrNotFound, expectedStatus: http.StatusNotFound},
		{name: "Forbidden", err: domain.ErrForbidden, expectedStatus: http.StatusForbidden},
		{name: "Already cancelled", err: domain.ErrAlreadyCancelled, expectedStatus: http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewReservationHandler(mockService)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			c.Params = gin.Params{{Key: "id", Value: "100"}}
			c.Request = httptest.NewRequest("DELETE", "/api/reservations/100", nil)
			c.Request.Header.Set("X-Passenger-ID", "7")

			mockService.On("Cancel", c.Request.Context(), int64(100), int64(7)).Return(tc.err)

			handler.cancel(c)

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestReservationHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/reservations", nil)
	c.Request.Header.Set("X-Passenger-ID", "7")

	summaries := []domain.ReservationSummary{
		{ReservationID: 2, Status: domain.ReservationStatusConfirmed, SeatCode: "1B", FlightNumber: "FR-404"},
		{ReservationID: 1, Status: domain.ReservationStatusCancelled, SeatCode: "1A", FlightNumber: "FR-404"},
	}
	mockService.On("ListReservations", c.Request.Context(), int64(7)).Return(summaries, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []reservationSummaryResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, int64(2), response[0].ReservationID)
	assert.Equal(t, "1B", response[0].SeatCode)

	mockService.AssertExpectations(t)
}
