package common

import (
	"testing"
	"time"

	"crbs/src/models"
	"crbs/src/types"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func booking(id uint, status types.BookingStatus, pickup, dropoff string) models.Booking {
	return models.Booking{
		ID:          id,
		Status:      status,
		PickupDate:  day(pickup),
		DropoffDate: day(dropoff),
	}
}

func TestAvailabilityNoBookings(t *testing.T) {
	v := &models.Vehicle{ID: 1, Quantity: 3}

	result, err := ComputeAvailability(v, nil, day("2026-09-01"), day("2026-09-05"), 0)
	assert.Nil(t, err)
	assert.Equal(t, 3, result.AvailableUnits)
	assert.Equal(t, 3, result.TotalUnits)
	assert.Equal(t, 0, result.MaxConcurrentBookedUnits)
	assert.Len(t, result.PerDayOccupancy, 5)
	for _, occ := range result.PerDayOccupancy {
		assert.Equal(t, 0, occ)
	}
}

func TestAvailabilityWorstDayDecides(t *testing.T) {
	// Three units, two confirmed bookings that only stack on Sep 3. The
	// query range as a whole has one free unit: the one free on the worst day.
	v := &models.Vehicle{ID: 1, Quantity: 3}
	active := []models.Booking{
		booking(1, types.BOOKING_CONFIRMED, "2026-09-01", "2026-09-03"),
		booking(2, types.BOOKING_CONFIRMED, "2026-09-03", "2026-09-06"),
	}

	result, err := ComputeAvailability(v, active, day("2026-09-01"), day("2026-09-06"), 0)
	assert.Nil(t, err)
	assert.Equal(t, 2, result.MaxConcurrentBookedUnits)
	assert.Equal(t, 1, result.AvailableUnits)
	assert.Equal(t, 2, result.PerDayOccupancy["2026-09-03"])
	assert.Equal(t, 1, result.PerDayOccupancy["2026-09-01"])
	assert.Equal(t, 1, result.PerDayOccupancy["2026-09-06"])
}

func TestAvailabilityInclusiveBoundaries(t *testing.T) {
	// An existing booking ending on the query start day still occupies a
	// unit on that day. Dates are inclusive on both ends.
	v := &models.Vehicle{ID: 1, Quantity: 1}
	active := []models.Booking{
		booking(1, types.BOOKING_CONFIRMED, "2026-09-01", "2026-09-03"),
	}

	result, err := ComputeAvailability(v, active, day("2026-09-03"), day("2026-09-05"), 0)
	assert.Nil(t, err)
	assert.Equal(t, 0, result.AvailableUnits)
	assert.Equal(t, 1, result.PerDayOccupancy["2026-09-03"])
	assert.Equal(t, 0, result.PerDayOccupancy["2026-09-04"])

	// One day later the ranges no longer touch.
	result, err = ComputeAvailability(v, active, day("2026-09-04"), day("2026-09-06"), 0)
	assert.Nil(t, err)
	assert.Equal(t, 1, result.AvailableUnits)
}

func TestAvailabilityIgnoresInactiveStatuses(t *testing.T) {
	v := &models.Vehicle{ID: 1, Quantity: 1}
	active := []models.Booking{
		booking(1, types.BOOKING_PENDING, "2026-09-01", "2026-09-05"),
		booking(2, types.BOOKING_CANCELLED, "2026-09-01", "2026-09-05"),
		booking(3, types.BOOKING_RETURNED, "2026-09-01", "2026-09-05"),
		booking(4, types.BOOKING_COMPLETED, "2026-09-01", "2026-09-05"),
	}

	result, err := ComputeAvailability(v, active, day("2026-09-02"), day("2026-09-04"), 0)
	assert.Nil(t, err)
	assert.Equal(t, 1, result.AvailableUnits)
	assert.Equal(t, 0, result.MaxConcurrentBookedUnits)
}

func TestAvailabilityCountsAllActiveStatuses(t *testing.T) {
	v := &models.Vehicle{ID: 1, Quantity: 4}
	active := []models.Booking{
		booking(1, types.BOOKING_CONFIRMED, "2026-09-01", "2026-09-05"),
		booking(2, types.BOOKING_HANDED_OVER, "2026-09-01", "2026-09-05"),
		booking(3, types.BOOKING_IN_USE, "2026-09-01", "2026-09-05"),
		booking(4, types.BOOKING_OVERDUE, "2026-09-01", "2026-09-05"),
	}

	result, err := ComputeAvailability(v, active, day("2026-09-02"), day("2026-09-04"), 0)
	assert.Nil(t, err)
	assert.Equal(t, 0, result.AvailableUnits)
	assert.Equal(t, 4, result.MaxConcurrentBookedUnits)
}

func TestAvailabilityExcludesBookingBeingEdited(t *testing.T) {
	v := &models.Vehicle{ID: 1, Quantity: 1}
	active := []models.Booking{
		booking(7, types.BOOKING_CONFIRMED, "2026-09-01", "2026-09-05"),
	}

	// Without the exclusion the booking collides with itself.
	result, err := ComputeAvailability(v, active, day("2026-09-02"), day("2026-09-06"), 0)
	assert.Nil(t, err)
	assert.Equal(t, 0, result.AvailableUnits)

	result, err = ComputeAvailability(v, active, day("2026-09-02"), day("2026-09-06"), 7)
	assert.Nil(t, err)
	assert.Equal(t, 1, result.AvailableUnits)
}

func TestAvailabilityRecomputeIsIdempotent(t *testing.T) {
	v := &models.Vehicle{ID: 1, Quantity: 2}
	active := []models.Booking{
		booking(1, types.BOOKING_CONFIRMED, "2026-09-01", "2026-09-03"),
		booking(2, types.BOOKING_IN_USE, "2026-09-02", "2026-09-04"),
	}

	first, err := ComputeAvailability(v, active, day("2026-09-01"), day("2026-09-04"), 0)
	assert.Nil(t, err)
	second, err := ComputeAvailability(v, active, day("2026-09-01"), day("2026-09-04"), 0)
	assert.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestAvailabilityMonotonicUnderAddedBookings(t *testing.T) {
	v := &models.Vehicle{ID: 1, Quantity: 5}
	active := []models.Booking{}
	prev := 5
	for id := uint(1); id <= 5; id++ {
		active = append(active, booking(id, types.BOOKING_CONFIRMED, "2026-09-01", "2026-09-07"))
		result, err := ComputeAvailability(v, active, day("2026-09-02"), day("2026-09-05"), 0)
		assert.Nil(t, err)
		assert.LessOrEqual(t, result.AvailableUnits, prev)
		prev = result.AvailableUnits
	}
	assert.Equal(t, 0, prev)
}

func TestAvailabilityOverCapacityReportsZero(t *testing.T) {
	// More active bookings than units should never happen, but when it does
	// the result clamps at zero and still reports the real occupancy.
	v := &models.Vehicle{ID: 1, Quantity: 1}
	active := []models.Booking{
		booking(1, types.BOOKING_CONFIRMED, "2026-09-01", "2026-09-05"),
		booking(2, types.BOOKING_CONFIRMED, "2026-09-01", "2026-09-05"),
	}

	result, err := ComputeAvailability(v, active, day("2026-09-02"), day("2026-09-04"), 0)
	assert.Nil(t, err)
	assert.Equal(t, 0, result.AvailableUnits)
	assert.Equal(t, 2, result.MaxConcurrentBookedUnits)
}

func TestAvailabilityRejectsInvertedRange(t *testing.T) {
	v := &models.Vehicle{ID: 1, Quantity: 1}

	_, err := ComputeAvailability(v, nil, day("2026-09-05"), day("2026-09-01"), 0)
	assert.NotNil(t, err)
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = ComputeAvailability(v, nil, day("2026-09-05"), day("2026-09-05"), 0)
	assert.NotNil(t, err)
}

func TestNormalizeDateDropsTimeAndZone(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2026, 9, 1, 23, 45, 0, 0, loc)

	normalized := NormalizeDate(late)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), normalized)
	assert.Equal(t, time.UTC, normalized.Location())
}

func TestRentalDays(t *testing.T) {
	assert.Equal(t, 4, RentalDays(day("2026-09-01"), day("2026-09-05")))
	assert.Equal(t, 1, RentalDays(day("2026-09-01"), day("2026-09-02")))
	// Same-day and inverted inputs floor at one billable day.
	assert.Equal(t, 1, RentalDays(day("2026-09-01"), day("2026-09-01")))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("pickup_date", "2026-09-01")
	assert.Nil(t, err)
	assert.Equal(t, day("2026-09-01"), parsed)

	_, err = ParseDate("pickup_date", "01/09/2026")
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "pickup_date", verr.Field)
}
