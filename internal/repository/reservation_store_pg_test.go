package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightreserve/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewReservationStore(t *testing.T) {
	pool := &pgxpool.Pool{}
	store := NewReservationStore(pool, 3*time.Second)
	assert.NotNil(t, store)
	assert.Equal(t, 3*time.Second, store.lockTimeout)
}

func TestMapLockErr(t *testing.T) {
	lockErr := &pgconn.PgError{Code: lockNotAvailable}
	assert.ErrorIs(t, mapLockErr(lockErr), domain.ErrBusy)

	otherPg := &pgconn.PgError{Code: "23505"}
	assert.NotErrorIs(t, mapLockErr(otherPg), domain.ErrBusy)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapLockErr(plain))
}
