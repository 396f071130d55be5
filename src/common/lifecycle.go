package common

import (
	"time"

	"crbs/src/models"
	"crbs/src/types"
)

// AllowedTransitions is the booking state machine as a directed graph.
// cancelled and completed are terminal. Cancellation stops being possible
// once the customer has taken physical possession (in_use and later).
var AllowedTransitions = map[types.BookingStatus][]types.BookingStatus{
	types.BOOKING_PENDING:     {types.BOOKING_CONFIRMED, types.BOOKING_CANCELLED},
	types.BOOKING_CONFIRMED:   {types.BOOKING_HANDED_OVER, types.BOOKING_CANCELLED},
	types.BOOKING_HANDED_OVER: {types.BOOKING_IN_USE, types.BOOKING_RETURNED, types.BOOKING_CANCELLED},
	types.BOOKING_IN_USE:      {types.BOOKING_RETURNED, types.BOOKING_OVERDUE},
	types.BOOKING_OVERDUE:     {types.BOOKING_RETURNED, types.BOOKING_COMPLETED},
	types.BOOKING_RETURNED:    {types.BOOKING_COMPLETED},
	types.BOOKING_CANCELLED:   {},
	types.BOOKING_COMPLETED:   {},
}

func CanTransition(from, to types.BookingStatus) bool {
	allowed, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition moves the booking to the target status and appends one
// entry to its status history. The booking struct is left untouched when the
// transition is not allowed. Persistence and transition side effects (payment
// fields, inspection records, surcharges) belong to the callers in
// booking.go; this function only enforces the graph and the audit trail.
func ApplyTransition(b *models.Booking, to types.BookingStatus, now time.Time, actor, note string) error {
	if b == nil {
		return types.NewNotFoundError("booking", "nil")
	}
	if !CanTransition(b.Status, to) {
		return &types.InvalidTransitionError{From: b.Status, To: to}
	}
	b.Status = to
	b.StatusHistory = append(b.StatusHistory, models.BookingStatusEvent{
		BookingID: b.ID,
		Status:    to,
		Actor:     actor,
		Note:      note,
		CreatedAt: now,
	})
	return nil
}

// IsOverdue reports whether an in_use booking has run past its scheduled
// dropoff without being returned. The periodic sweep in boot uses this to
// drive the explicit in_use -> overdue transition; nothing in the core runs a
// clock of its own.
func IsOverdue(b *models.Booking, now time.Time) bool {
	if b == nil || b.Status != types.BOOKING_IN_USE {
		return false
	}
	return now.After(b.DropoffDate)
}
