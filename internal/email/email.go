package email

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/flightreserve/internal/kafka"
)

// Sender delivers reservation notifications. Delivery is a stand-in: the
// notification is logged with everything a mail template would need.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	slog.Info("sending reservation notification",
		"type", event.Type,
		"passenger_id", event.PassengerID,
		"reservation_id", event.ReservationID,
		"flight_id", event.FlightID,
		"seat_code", event.SeatCode,
		"ticket_code", event.TicketCode)
	return nil
}
