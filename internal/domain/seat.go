package domain

import (
	"fmt"
	"strconv"
)

// Cabins are laid out row-major with six seats per row, lettered A..F.
// Seat codes look like "1A", "12C".
const seatsPerRow = 6

var seatLetters = [seatsPerRow]byte{'A', 'B', 'C', 'D', 'E', 'F'}

// SeatCodeAt returns the seat code for a zero-based seat index.
func SeatCodeAt(index int) string {
	row := index/seatsPerRow + 1
	return fmt.Sprintf("%d%c", row, seatLetters[index%seatsPerRow])
}

// seatIndex converts a seat code back to its zero-based index, or -1 when
// the code is malformed.
func seatIndex(code string) int {
	if len(code) < 2 {
		return -1
	}
	col := -1
	for i, l := range seatLetters {
		if code[len(code)-1] == l {
			col = i
			break
		}
	}
	if col < 0 {
		return -1
	}
	row, err := strconv.Atoi(code[:len(code)-1])
	if err != nil || row < 1 {
		return -1
	}
	return (row-1)*seatsPerRow + col
}

// ValidSeatCode reports whether code is well formed (row number plus a
// letter A..F). Capacity is a seat count, not a layout: any well-formed
// code may be requested as long as the flight has room.
func ValidSeatCode(code string) bool {
	return seatIndex(code) >= 0
}

// NextFreeSeat picks the lowest unused seat code given the codes already
// held. The second result is false when every seat is occupied.
func NextFreeSeat(occupied []string, capacity int) (string, bool) {
	taken := make(map[string]struct{}, len(occupied))
	for _, code := range occupied {
		taken[code] = struct{}{}
	}
	for i := 0; i < capacity; i++ {
		code := SeatCodeAt(i)
		if _, ok := taken[code]; !ok {
			return code, true
		}
	}
	return "", false
}
