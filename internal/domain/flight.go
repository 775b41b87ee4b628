package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

type Flight struct {
	ID            int64
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureTime time.Time
	Capacity      int
	PriceCents    int64
	Status        FlightStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Bookable reports whether new reservations may be taken on the flight:
// it must still be SCHEDULED and its departure must be in the future.
func (f *Flight) Bookable(now time.Time) bool {
	return f.Status == FlightStatusScheduled && f.DepartureTime.After(now)
}
