package common

import (
	"testing"
	"time"

	"crbs/src/models"
	"crbs/src/types"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []types.BookingStatus{
	types.BOOKING_PENDING,
	types.BOOKING_CONFIRMED,
	types.BOOKING_HANDED_OVER,
	types.BOOKING_IN_USE,
	types.BOOKING_OVERDUE,
	types.BOOKING_RETURNED,
	types.BOOKING_COMPLETED,
	types.BOOKING_CANCELLED,
}

func TestTransitionGraphClosure(t *testing.T) {
	allowed := map[[2]types.BookingStatus]bool{
		{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}:      true,
		{types.BOOKING_PENDING, types.BOOKING_CANCELLED}:      true,
		{types.BOOKING_CONFIRMED, types.BOOKING_HANDED_OVER}:  true,
		{types.BOOKING_CONFIRMED, types.BOOKING_CANCELLED}:    true,
		{types.BOOKING_HANDED_OVER, types.BOOKING_IN_USE}:     true,
		{types.BOOKING_HANDED_OVER, types.BOOKING_RETURNED}:   true,
		{types.BOOKING_HANDED_OVER, types.BOOKING_CANCELLED}:  true,
		{types.BOOKING_IN_USE, types.BOOKING_RETURNED}:        true,
		{types.BOOKING_IN_USE, types.BOOKING_OVERDUE}:         true,
		{types.BOOKING_OVERDUE, types.BOOKING_RETURNED}:       true,
		{types.BOOKING_OVERDUE, types.BOOKING_COMPLETED}:      true,
		{types.BOOKING_RETURNED, types.BOOKING_COMPLETED}:     true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]types.BookingStatus{from, to}]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []types.BookingStatus{types.BOOKING_CANCELLED, types.BOOKING_COMPLETED} {
		for _, to := range allStatuses {
			assert.Falsef(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestInUseIsNotCancellable(t *testing.T) {
	// Once the customer has taken possession, cancellation is no longer a
	// valid exit; the vehicle has to come back first.
	assert.False(t, CanTransition(types.BOOKING_IN_USE, types.BOOKING_CANCELLED))
	assert.False(t, CanTransition(types.BOOKING_OVERDUE, types.BOOKING_CANCELLED))
}

func TestApplyTransitionAppendsHistory(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	b := &models.Booking{ID: 42, Status: types.BOOKING_PENDING}

	err := ApplyTransition(b, types.BOOKING_CONFIRMED, now, "stripe", "payment received")
	assert.Nil(t, err)
	assert.Equal(t, types.BOOKING_CONFIRMED, b.Status)
	assert.Len(t, b.StatusHistory, 1)
	assert.Equal(t, uint(42), b.StatusHistory[0].BookingID)
	assert.Equal(t, types.BOOKING_CONFIRMED, b.StatusHistory[0].Status)
	assert.Equal(t, "stripe", b.StatusHistory[0].Actor)
	assert.Equal(t, now, b.StatusHistory[0].CreatedAt)
}

func TestApplyTransitionRejectsSkippingStates(t *testing.T) {
	now := time.Now()
	b := &models.Booking{ID: 1, Status: types.BOOKING_CONFIRMED}

	err := ApplyTransition(b, types.BOOKING_IN_USE, now, "admin", "")
	var terr *types.InvalidTransitionError
	assert.ErrorAs(t, err, &terr)
	assert.Equal(t, types.BOOKING_CONFIRMED, terr.From)
	assert.Equal(t, types.BOOKING_IN_USE, terr.To)

	// The struct is untouched on rejection.
	assert.Equal(t, types.BOOKING_CONFIRMED, b.Status)
	assert.Empty(t, b.StatusHistory)
}

func TestApplyTransitionRejectsCompletedExit(t *testing.T) {
	b := &models.Booking{ID: 1, Status: types.BOOKING_COMPLETED}

	err := ApplyTransition(b, types.BOOKING_CANCELLED, time.Now(), "admin", "")
	var terr *types.InvalidTransitionError
	assert.ErrorAs(t, err, &terr)
	assert.Equal(t, types.BOOKING_COMPLETED, b.Status)
}

func TestFullLifecyclePath(t *testing.T) {
	now := time.Now()
	b := &models.Booking{ID: 1, Status: types.BOOKING_PENDING}
	path := []types.BookingStatus{
		types.BOOKING_CONFIRMED,
		types.BOOKING_HANDED_OVER,
		types.BOOKING_IN_USE,
		types.BOOKING_RETURNED,
		types.BOOKING_COMPLETED,
	}
	for _, next := range path {
		assert.Nil(t, ApplyTransition(b, next, now, "admin", ""))
	}
	assert.Equal(t, types.BOOKING_COMPLETED, b.Status)
	assert.Len(t, b.StatusHistory, len(path))
}

func TestIsOverdue(t *testing.T) {
	dropoff := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: types.BOOKING_IN_USE, DropoffDate: dropoff}

	assert.False(t, IsOverdue(b, dropoff.Add(-time.Hour)))
	assert.True(t, IsOverdue(b, dropoff.Add(time.Hour)))

	// Only in_use bookings can go overdue.
	b.Status = types.BOOKING_CONFIRMED
	assert.False(t, IsOverdue(b, dropoff.Add(time.Hour)))
	assert.False(t, IsOverdue(nil, dropoff))
}
