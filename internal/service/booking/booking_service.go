package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/flightreserve/internal/domain"
	"github.com/Domenick1991/flightreserve/internal/kafka"
	"github.com/Domenick1991/flightreserve/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	Book(ctx context.Context, input BookInput) (*domain.BookingConfirmation, error)
	Cancel(ctx context.Context, reservationID, passengerID int64) error
	ListReservations(ctx context.Context, passengerID int64) ([]domain.ReservationSummary, error)
}

// Cache is the Redis seat-hold guard in front of the database transaction.
// It only sheds obviously-doomed attempts early; correctness never depends
// on it, so a nil Cache is fine.
type Cache interface {
	AcquireSeatHold(ctx context.Context, flightID int64, seatCode string, ttl time.Duration) (bool, error)
	ReleaseSeatHold(ctx context.Context, flightID int64, seatCode string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookInput struct {
	PassengerID int64              `json:"passenger_id"`
	FlightID    int64              `json:"flight_id"`
	SeatCode    string             `json:"seat_code"`
	Class       domain.TravelClass `json:"class"`
	AmountCents int64              `json:"amount_cents"`
	Mode        domain.PaymentMode `json:"mode"`
}

// BookingService is the transaction coordinator: it validates a booking
// request, drives the all-or-nothing reservation+ticket+payment write, and
// compensates confirmed bookings on cancellation.
type BookingService struct {
	store              repository.ReservationStore
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	store repository.ReservationStore,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		store:        store,
		flights:      flights,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Book(ctx context.Context, input BookInput) (*domain.BookingConfirmation, error) {
	if err := validateBookInput(input); err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("flight %d: %w", input.FlightID, domain.ErrInvalidFlight)
		}
		return nil, err
	}
	if !flight.Bookable(s.now()) {
		return nil, fmt.Errorf("flight %d is %s: %w", flight.ID, flight.Status, domain.ErrInvalidFlight)
	}

	// Fast-fail on an explicitly requested seat that someone else is
	// mid-booking. The transaction below re-checks under the row lock.
	if input.SeatCode != "" && s.cache != nil {
		ok, err := s.cache.AcquireSeatHold(ctx, input.FlightID, input.SeatCode, s.holdTTL)
		if err != nil {
			slog.Warn("seat hold unavailable, continuing without it", "error", err)
		} else if !ok {
			return nil, fmt.Errorf("seat %s on flight %d: %w", input.SeatCode, input.FlightID, domain.ErrSeatTaken)
		} else {
			defer func() {
				_ = s.cache.ReleaseSeatHold(ctx, input.FlightID, input.SeatCode)
			}()
		}
	}

	tx, err := s.store.BeginBooking(ctx, input.FlightID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("flight %d: %w", input.FlightID, domain.ErrInvalidFlight)
		}
		return nil, err
	}
	defer tx.Rollback(ctx)

	locked := tx.Flight()
	if !locked.Bookable(s.now()) {
		return nil, fmt.Errorf("flight %d is %s: %w", locked.ID, locked.Status, domain.ErrInvalidFlight)
	}

	seatCode, err := chooseSeat(input.SeatCode, tx.OccupiedSeats(), locked.Capacity)
	if err != nil {
		return nil, err
	}

	reservation := &domain.Reservation{
		PassengerID: input.PassengerID,
		FlightID:    input.FlightID,
		Status:      domain.ReservationStatusConfirmed,
	}
	ticket := &domain.Ticket{
		SeatCode:   seatCode,
		Class:      input.Class,
		TicketCode: uuid.NewString(),
	}
	payment := &domain.Payment{
		AmountCents: input.AmountCents,
		Mode:        input.Mode,
		Status:      domain.PaymentStatusSuccess,
	}

	if err := tx.Create(ctx, reservation, ticket, payment); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventReservationBooked, reservation, ticket, payment)

	return &domain.BookingConfirmation{
		ReservationID: reservation.ID,
		TicketID:      ticket.ID,
		SeatCode:      ticket.SeatCode,
		TicketCode:    ticket.TicketCode,
	}, nil
}

// chooseSeat picks or validates the seat under the flight lock. The order
// matters: a requested seat that is occupied reports ErrSeatTaken even on a
// full flight, so the caller knows retrying with another seat is pointless
// only when ErrFlightFull comes back.
func chooseSeat(requested string, occupied []string, capacity int) (string, error) {
	if requested != "" {
		for _, code := range occupied {
			if code == requested {
				return "", fmt.Errorf("seat %s: %w", requested, domain.ErrSeatTaken)
			}
		}
		if len(occupied) >= capacity {
			return "", fmt.Errorf("%d of %d seats booked: %w", len(occupied), capacity, domain.ErrFlightFull)
		}
		return requested, nil
	}

	if len(occupied) >= capacity {
		return "", fmt.Errorf("%d of %d seats booked: %w", len(occupied), capacity, domain.ErrFlightFull)
	}
	code, ok := domain.NextFreeSeat(occupied, capacity)
	if !ok {
		return "", fmt.Errorf("%d of %d seats booked: %w", len(occupied), capacity, domain.ErrFlightFull)
	}
	return code, nil
}

func (s *BookingService) Cancel(ctx context.Context, reservationID, passengerID int64) error {
	tx, err := s.store.BeginCancel(ctx, reservationID)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	reservation := tx.Reservation()
	if reservation.PassengerID != passengerID {
		return fmt.Errorf("reservation %d belongs to another passenger: %w", reservationID, domain.ErrForbidden)
	}
	if reservation.Status == domain.ReservationStatusCancelled {
		return fmt.Errorf("reservation %d: %w", reservationID, domain.ErrAlreadyCancelled)
	}

	if err := tx.MarkCancelled(ctx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	ticket := tx.Ticket()
	if s.cache != nil {
		_ = s.cache.ReleaseSeatHold(ctx, reservation.FlightID, ticket.SeatCode)
	}
	cancelled := reservation
	cancelled.Status = domain.ReservationStatusCancelled
	s.publish(ctx, kafka.EventReservationCancelled, &cancelled, &ticket, nil)

	return nil
}

func (s *BookingService) ListReservations(ctx context.Context, passengerID int64) ([]domain.ReservationSummary, error) {
	return s.store.ListByPassenger(ctx, passengerID)
}

func validateBookInput(input BookInput) error {
	if input.PassengerID <= 0 {
		return fmt.Errorf("passenger id is required: %w", domain.ErrInvalidInput)
	}
	if input.FlightID <= 0 {
		return fmt.Errorf("flight id is required: %w", domain.ErrInvalidInput)
	}
	if !input.Class.Valid() {
		return fmt.Errorf("unknown travel class %q: %w", input.Class, domain.ErrInvalidInput)
	}
	if !input.Mode.Valid() {
		return fmt.Errorf("unknown payment mode %q: %w", input.Mode, domain.ErrInvalidInput)
	}
	if input.AmountCents <= 0 {
		return fmt.Errorf("amount must be positive: %w", domain.ErrInvalidInput)
	}
	if input.SeatCode != "" && !domain.ValidSeatCode(input.SeatCode) {
		return fmt.Errorf("malformed seat code %q: %w", input.SeatCode, domain.ErrInvalidInput)
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, res *domain.Reservation, ticket *domain.Ticket, payment *domain.Payment) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		PassengerID:   res.PassengerID,
		FlightID:      res.FlightID,
		Status:        string(res.Status),
		SeatCode:      ticket.SeatCode,
		Class:         string(ticket.Class),
		TicketCode:    ticket.TicketCode,
		Timestamp:     s.now(),
	}
	if payment != nil {
		event.AmountCents = payment.AmountCents
		event.PaymentMode = string(payment.Mode)
	}

	key := fmt.Sprintf("reservation-%d", res.ID)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		slog.Warn("failed to publish reservation event", "type", eventType, "reservation_id", res.ID, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			slog.Warn("failed to publish notification event", "type", eventType, "reservation_id", res.ID, "error", err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
