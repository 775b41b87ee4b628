package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlightBookable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	flight := Flight{Status: FlightStatusScheduled, DepartureTime: now.Add(time.Hour)}
	assert.True(t, flight.Bookable(now))

	past := Flight{Status: FlightStatusScheduled, DepartureTime: now.Add(-time.Hour)}
	assert.False(t, past.Bookable(now))

	departed := Flight{Status: FlightStatusDeparted, DepartureTime: now.Add(time.Hour)}
	assert.False(t, departed.Bookable(now))

	cancelled := Flight{Status: FlightStatusCancelled, DepartureTime: now.Add(time.Hour)}
	assert.False(t, cancelled.Bookable(now))
}

func TestTravelClassValid(t *testing.T) {
	assert.True(t, TravelClassEconomy.Valid())
	assert.True(t, TravelClassBusiness.Valid())
	assert.True(t, TravelClassFirst.Valid())
	assert.False(t, TravelClass("PREMIUM").Valid())
	assert.False(t, TravelClass("").Valid())
}

func TestPaymentModeValid(t *testing.T) {
	for _, mode := range []PaymentMode{PaymentModeCard, PaymentModeUPI, PaymentModeCash, PaymentModeWallet, PaymentModeNetBanking} {
		assert.True(t, mode.Valid())
	}
	assert.False(t, PaymentMode("CRYPTO").Valid())
	assert.False(t, PaymentMode("").Valid())
}
