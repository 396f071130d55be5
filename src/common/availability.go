package common

import (
	"strconv"
	"time"

	"crbs/src/models"
	"crbs/src/types"
)

// ActiveStatuses are the statuses that commit a physical unit. Pending
// bookings have not consumed inventory yet and cancelled ones never will, so
// both are excluded here and everywhere availability is derived.
var ActiveStatuses = []types.BookingStatus{
	types.BOOKING_CONFIRMED,
	types.BOOKING_HANDED_OVER,
	types.BOOKING_IN_USE,
	types.BOOKING_OVERDUE,
}

func IsActiveStatus(s types.BookingStatus) bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// ActiveStatusStrings is the active set in the form the query layer needs.
func ActiveStatusStrings() []string {
	out := make([]string, 0, len(ActiveStatuses))
	for _, s := range ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

type AvailabilityResult struct {
	AvailableUnits           int            `json:"available_units"`
	TotalUnits               int            `json:"total_units"`
	MaxConcurrentBookedUnits int            `json:"max_concurrent_booked_units"`
	PerDayOccupancy          map[string]int `json:"per_day_occupancy"`
}

// NormalizeDate truncates t to midnight UTC. Every date the engine compares
// goes through this first so time-of-day and timezone offsets cannot produce
// off-by-one days.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// RentalDays counts the billable days of an inclusive [pickup, dropoff) stay,
// always at least 1.
func RentalDays(pickup, dropoff time.Time) int {
	days := int(NormalizeDate(dropoff).Sub(NormalizeDate(pickup)).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

func rangesOverlap(pickup, dropoff, start, end time.Time) bool {
	return !pickup.After(end) && !dropoff.Before(start)
}

// ComputeAvailability answers how many units of a vehicle are free for every
// day of the inclusive [start, end] range, given the active bookings that
// overlap it. A unit is free for the range only if it is free on the single
// worst day: a renter needs the unit for the whole range, so the most-occupied
// day decides. The function is a pure query over its inputs; it is shared by
// the reservation write path, edit re-checks and read-only display, which must
// never diverge.
//
// excludeBookingID, when non-zero, drops that booking from the count so a
// booking being edited does not collide with itself.
func ComputeAvailability(vehicle *models.Vehicle, active []models.Booking, start, end time.Time, excludeBookingID uint) (*AvailabilityResult, error) {
	if vehicle == nil {
		return &AvailabilityResult{}, types.NewNotFoundError("vehicle", "nil")
	}
	qStart := NormalizeDate(start)
	qEnd := NormalizeDate(end)
	if !qStart.Before(qEnd) {
		return nil, types.NewValidationError("dropoff_date", "dropoff must be after pickup")
	}

	total := int(vehicle.Quantity)
	result := &AvailabilityResult{
		TotalUnits:      total,
		PerDayOccupancy: map[string]int{},
	}

	overlapping := make([]models.Booking, 0, len(active))
	for _, b := range active {
		if excludeBookingID != 0 && b.ID == excludeBookingID {
			continue
		}
		if !IsActiveStatus(b.Status) {
			continue
		}
		if rangesOverlap(NormalizeDate(b.PickupDate), NormalizeDate(b.DropoffDate), qStart, qEnd) {
			overlapping = append(overlapping, b)
		}
	}

	// Nothing overlaps: the whole fleet quantity is free on every day.
	if len(overlapping) == 0 {
		result.AvailableUnits = total
		for d := qStart; !d.After(qEnd); d = d.AddDate(0, 0, 1) {
			result.PerDayOccupancy[dayKey(d)] = 0
		}
		return result, nil
	}

	maxOccupancy := 0
	for d := qStart; !d.After(qEnd); d = d.AddDate(0, 0, 1) {
		occupancy := 0
		for _, b := range overlapping {
			if rangesOverlap(NormalizeDate(b.PickupDate), NormalizeDate(b.DropoffDate), d, d) {
				occupancy++
			}
		}
		result.PerDayOccupancy[dayKey(d)] = occupancy
		if occupancy > maxOccupancy {
			maxOccupancy = occupancy
		}
	}

	result.MaxConcurrentBookedUnits = maxOccupancy
	available := total - maxOccupancy
	if available < 0 {
		// The capacity invariant was broken upstream; report zero rather than
		// under-counting silently. MaxConcurrentBookedUnits still carries the
		// real occupancy so callers can see the violation.
		available = 0
	}
	result.AvailableUnits = available
	return result, nil
}

// ParseDate parses a YYYY-MM-DD request value and normalizes it.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, types.NewValidationError(field, "expected date in YYYY-MM-DD format, got "+strconv.Quote(value))
	}
	return NormalizeDate(t), nil
}
