package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatCodeAt(t *testing.T) {
	assert.Equal(t, "1A", SeatCodeAt(0))
	assert.Equal(t, "1F", SeatCodeAt(5))
	assert.Equal(t, "2A", SeatCodeAt(6))
	assert.Equal(t, "12C", SeatCodeAt(68))
}

func TestValidSeatCode(t *testing.T) {
	testCases := []struct {
		code  string
		valid bool
	}{
		{"1A", true},
		{"2C", true},
		{"12F", true},
		{"", false},
		{"A", false},
		{"A1", false},
		{"1G", false},
		{"0A", false},
		{"-1B", false},
		{"1a", false},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidSeatCode(tc.code))
		})
	}
}

func TestNextFreeSeat(t *testing.T) {
	code, ok := NextFreeSeat(nil, 3)
	assert.True(t, ok)
	assert.Equal(t, "1A", code)

	code, ok = NextFreeSeat([]string{"1A", "1C"}, 3)
	assert.True(t, ok)
	assert.Equal(t, "1B", code)

	_, ok = NextFreeSeat([]string{"1A", "1B", "1C"}, 3)
	assert.False(t, ok)
}
