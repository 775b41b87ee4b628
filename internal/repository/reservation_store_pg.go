package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationStore gives the booking coordinator scoped transactional
// sessions over the reservation/ticket/payment tables. All writes to those
// tables go through sessions obtained here.
type ReservationStore interface {
	// BeginBooking opens a transaction with the flight row locked and the
	// seat ledger (occupied seat codes of CONFIRMED reservations) loaded.
	BeginBooking(ctx context.Context, flightID int64) (BookingTx, error)
	// BeginCancel opens a transaction with the reservation row locked.
	BeginCancel(ctx context.Context, reservationID int64) (CancelTx, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]domain.ReservationSummary, error)
}

// BookingTx is a single booking attempt. Either Create succeeds and Commit
// makes the triple visible, or Rollback leaves no trace.
type BookingTx interface {
	Flight() domain.Flight
	OccupiedSeats() []string
	// Create inserts the reservation, its ticket, and its payment as one
	// unit, filling in generated ids and timestamps.
	Create(ctx context.Context, res *domain.Reservation, ticket *domain.Ticket, payment *domain.Payment) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// CancelTx is a single cancellation attempt over a locked reservation.
type CancelTx interface {
	Reservation() domain.Reservation
	Ticket() domain.Ticket
	// MarkCancelled flips the reservation to CANCELLED and its payment to
	// VOID. The seat is released implicitly: the ledger is derived from
	// CONFIRMED reservations only.
	MarkCancelled(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type PGReservationStore struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

func NewReservationStore(db *pgxpool.Pool, lockTimeout time.Duration) *PGReservationStore {
	return &PGReservationStore{db: db, lockTimeout: lockTimeout}
}

const lockNotAvailable = "55P03"

func mapLockErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
		return fmt.Errorf("flight row lock: %w", domain.ErrBusy)
	}
	return err
}

func (s *PGReservationStore) BeginBooking(ctx context.Context, flightID int64) (BookingTx, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}

	bt := &pgBookingTx{tx: tx}
	if err := bt.load(ctx, s.lockTimeout, flightID); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	return bt, nil
}

type pgBookingTx struct {
	tx       pgx.Tx
	flight   domain.Flight
	occupied []string
}

func (t *pgBookingTx) load(ctx context.Context, lockTimeout time.Duration, flightID int64) error {
	// Bounded wait on the row lock so a hot flight cannot stall callers
	// indefinitely; exceeding it surfaces as ErrBusy.
	if lockTimeout > 0 {
		if _, err := t.tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())); err != nil {
			return err
		}
	}

	err := scanFlight(t.tx.QueryRow(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE id=$1 FOR UPDATE`, flightID), &t.flight)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("flight %d: %w", flightID, domain.ErrNotFound)
	}
	if err != nil {
		return mapLockErr(err)
	}

	rows, err := t.tx.Query(ctx, `
		SELECT t.seat_code
		FROM tickets t
		JOIN reservations r ON r.id = t.reservation_id
		WHERE r.flight_id = $1 AND r.status = $2`,
		flightID, domain.ReservationStatusConfirmed)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return err
		}
		t.occupied = append(t.occupied, code)
	}
	return rows.Err()
}

func (t *pgBookingTx) Flight() domain.Flight { return t.flight }

func (t *pgBookingTx) OccupiedSeats() []string { return t.occupied }

func (t *pgBookingTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

func (t *pgBookingTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *pgBookingTx) Create(ctx context.Context, res *domain.Reservation, ticket *domain.Ticket, payment *domain.Payment) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO reservations (passenger_id, flight_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, booked_at`,
		res.PassengerID, res.FlightID, res.Status).
		Scan(&res.ID, &res.BookedAt)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}

	ticket.ReservationID = res.ID
	err = t.tx.QueryRow(ctx, `
		INSERT INTO tickets (reservation_id, seat_code, class, ticket_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, issued_at`,
		ticket.ReservationID, ticket.SeatCode, ticket.Class, ticket.TicketCode).
		Scan(&ticket.ID, &ticket.IssuedAt)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	payment.ReservationID = res.ID
	err = t.tx.QueryRow(ctx, `
		INSERT INTO payments (reservation_id, amount_cents, mode, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, paid_at`,
		payment.ReservationID, payment.AmountCents, payment.Mode, payment.Status).
		Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *PGReservationStore) BeginCancel(ctx context.Context, reservationID int64) (CancelTx, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}

	ct := &pgCancelTx{tx: tx}
	if err := ct.load(ctx, s.lockTimeout, reservationID); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	return ct, nil
}

type pgCancelTx struct {
	tx          pgx.Tx
	reservation domain.Reservation
	ticket      domain.Ticket
}

func (t *pgCancelTx) load(ctx context.Context, lockTimeout time.Duration, reservationID int64) error {
	if lockTimeout > 0 {
		if _, err := t.tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())); err != nil {
			return err
		}
	}

	err := t.tx.QueryRow(ctx, `
		SELECT r.id, r.passenger_id, r.flight_id, r.status, r.booked_at,
		       t.id, t.reservation_id, t.seat_code, t.class, t.ticket_code, t.issued_at
		FROM reservations r
		JOIN tickets t ON t.reservation_id = r.id
		WHERE r.id = $1
		FOR UPDATE OF r`, reservationID).
		Scan(&t.reservation.ID, &t.reservation.PassengerID, &t.reservation.FlightID,
			&t.reservation.Status, &t.reservation.BookedAt,
			&t.ticket.ID, &t.ticket.ReservationID, &t.ticket.SeatCode,
			&t.ticket.Class, &t.ticket.TicketCode, &t.ticket.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("reservation %d: %w", reservationID, domain.ErrNotFound)
	}
	if err != nil {
		return mapLockErr(err)
	}
	return nil
}

func (t *pgCancelTx) Reservation() domain.Reservation { return t.reservation }

func (t *pgCancelTx) Ticket() domain.Ticket { return t.ticket }

func (t *pgCancelTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

func (t *pgCancelTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *pgCancelTx) MarkCancelled(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx,
		`UPDATE reservations SET status=$1 WHERE id=$2`,
		domain.ReservationStatusCancelled, t.reservation.ID); err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}
	if _, err := t.tx.Exec(ctx,
		`UPDATE payments SET status=$1 WHERE reservation_id=$2`,
		domain.PaymentStatusVoid, t.reservation.ID); err != nil {
		return fmt.Errorf("void payment: %w", err)
	}
	t.reservation.Status = domain.ReservationStatusCancelled
	return nil
}

func (s *PGReservationStore) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.ReservationSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.status, r.booked_at,
		       t.id, t.seat_code, t.class, t.ticket_code,
		       f.id, f.flight_number, f.origin, f.destination, f.departure_time
		FROM reservations r
		JOIN tickets t ON t.reservation_id = r.id
		JOIN flights f ON f.id = r.flight_id
		WHERE r.passenger_id = $1
		ORDER BY r.booked_at DESC`, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.ReservationSummary, 0)
	for rows.Next() {
		var s domain.ReservationSummary
		if err := rows.Scan(&s.ReservationID, &s.Status, &s.BookedAt,
			&s.TicketID, &s.SeatCode, &s.Class, &s.TicketCode,
			&s.FlightID, &s.FlightNumber, &s.Origin, &s.Destination, &s.DepartureTime); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

var _ ReservationStore = (*PGReservationStore)(nil)
