package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

type TravelClass string

const (
	TravelClassEconomy  TravelClass = "ECONOMY"
	TravelClassBusiness TravelClass = "BUSINESS"
	TravelClassFirst    TravelClass = "FIRST"
)

func (c TravelClass) Valid() bool {
	switch c {
	case TravelClassEconomy, TravelClassBusiness, TravelClassFirst:
		return true
	}
	return false
}

type PaymentMode string

const (
	PaymentModeCard       PaymentMode = "CARD"
	PaymentModeUPI        PaymentMode = "UPI"
	PaymentModeCash       PaymentMode = "CASH"
	PaymentModeWallet     PaymentMode = "WALLET"
	PaymentModeNetBanking PaymentMode = "NET_BANKING"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCard, PaymentModeUPI, PaymentModeCash, PaymentModeWallet, PaymentModeNetBanking:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusVoid    PaymentStatus = "VOID"
)

type Reservation struct {
	ID          int64
	PassengerID int64
	FlightID    int64
	Status      ReservationStatus
	BookedAt    time.Time
}

// Ticket is the seat assignment issued against a confirmed reservation.
// Exactly one ticket exists per reservation.
type Ticket struct {
	ID            int64
	ReservationID int64
	SeatCode      string
	Class         TravelClass
	TicketCode    string
	IssuedAt      time.Time
}

// Payment records the (already settled) financial transaction backing a
// reservation. Cancellation flips it to VOID; amounts are never recomputed.
type Payment struct {
	ID            int64
	ReservationID int64
	AmountCents   int64
	Mode          PaymentMode
	Status        PaymentStatus
	PaidAt        time.Time
}

// ReservationSummary is the read-only projection returned to passengers:
// a reservation joined with its ticket and flight.
type ReservationSummary struct {
	ReservationID int64
	Status        ReservationStatus
	BookedAt      time.Time
	TicketID      int64
	SeatCode      string
	Class         TravelClass
	TicketCode    string
	FlightID      int64
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureTime time.Time
}

// BookingConfirmation is what a successful booking hands back to the caller.
type BookingConfirmation struct {
	ReservationID int64
	TicketID      int64
	SeatCode      string
	TicketCode    string
}
