package common

import (
	"errors"
	"fmt"
	"log"
	"time"

	"crbs/src/config"
	"crbs/src/db"
	"crbs/src/lib"
	"crbs/src/models"
	"crbs/src/models/scopes"
	"crbs/src/types"
	"crbs/src/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindActiveBookingsOverlapping returns the bookings that currently commit a
// unit of the vehicle and whose date range intersects [start, end]. The
// status filter is the single active set defined in availability.go.
func FindActiveBookingsOverlapping(tx *gorm.DB, vehicleID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := tx.
		Model(&models.Booking{}).
		Scopes(scopes.WithVehicle(vehicleID), scopes.WithStatuses(ActiveStatusStrings()...), scopes.Overlapping(start, end))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CheckAvailability is the read-only availability query used by the catalog
// and availability endpoints. It shares ComputeAvailability with the
// reservation write path so the two can never drift.
func CheckAvailability(vehicleID uint, start, end time.Time, excludeID uint) (*models.Vehicle, *AvailabilityResult, error) {
	db := db.GetDb()
	var vehicle models.Vehicle
	if err := db.
		Model(&models.Vehicle{}).
		Scopes(scopes.WithID(vehicleID)).
		First(&vehicle).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AvailabilityResult{}, types.NewNotFoundError("vehicle", fmt.Sprint(vehicleID))
		}
		return nil, nil, err
	}
	active, err := FindActiveBookingsOverlapping(db, vehicleID, start, end, excludeID)
	if err != nil {
		return nil, nil, err
	}
	result, err := ComputeAvailability(&vehicle, active, start, end, excludeID)
	if err != nil {
		return nil, nil, err
	}
	return &vehicle, result, nil
}

// Quote prices a stay: rental amount from the vehicle's daily rate, service
// fees on top. Amounts in currency minor units.
func Quote(vehicle *models.Vehicle, pickup, dropoff time.Time, cfg config.Pricing) (rental, fees, total int64) {
	days := RentalDays(pickup, dropoff)
	rental = vehicle.DailyRate * int64(days)
	fees = int64(float64(rental) * cfg.ServiceFeeRate)
	total = rental + fees
	return
}

type CreateBookingInput struct {
	VehicleID     uint
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Pickup        time.Time
	Dropoff       time.Time
	Actor         string
}

// CreateBooking runs the reservation write path: re-check availability and
// insert the pending booking inside one transaction that takes the vehicle
// row lock, so two simultaneous requests for the last unit serialize and at
// most `quantity` active bookings can overlap any single day. A short
// per-vehicle Redis lock guards the same window across instances.
func CreateBooking(in *CreateBookingInput) (*models.Booking, error) {
	pickup := NormalizeDate(in.Pickup)
	dropoff := NormalizeDate(in.Dropoff)
	if !pickup.Before(dropoff) {
		return nil, types.NewValidationError("dropoff_date", "dropoff must be after pickup")
	}
	if pickup.Before(NormalizeDate(time.Now())) {
		return nil, types.NewValidationError("pickup_date", "pickup date is in the past")
	}

	unlock, err := lib.AcquireVehicleLock(in.VehicleID)
	if err != nil {
		log.Printf("Could not acquire reservation lock for vehicle %d: %s\n", in.VehicleID, err.Error())
		return nil, err
	}
	defer unlock()

	cfg := config.GetPricing()
	var booking models.Booking
	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(scopes.WithID(in.VehicleID)).
			First(&vehicle).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("vehicle", fmt.Sprint(in.VehicleID))
			}
			return err
		}
		if !vehicle.IsAvailable {
			return &types.CapacityExceededError{VehicleID: vehicle.ID, AvailableUnits: 0, RequestedUnits: 1}
		}

		active, err := FindActiveBookingsOverlapping(tx, vehicle.ID, pickup, dropoff, 0)
		if err != nil {
			return err
		}
		availability, err := ComputeAvailability(&vehicle, active, pickup, dropoff, 0)
		if err != nil {
			return err
		}
		if availability.AvailableUnits < 1 {
			return &types.CapacityExceededError{
				VehicleID:      vehicle.ID,
				AvailableUnits: availability.AvailableUnits,
				RequestedUnits: 1,
			}
		}

		rental, fees, total := Quote(&vehicle, pickup, dropoff, cfg)
		booking = models.Booking{
			BookingCode:   utils.NewBookingCode(),
			VehicleID:     vehicle.ID,
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			CustomerPhone: in.CustomerPhone,
			PickupDate:    pickup,
			DropoffDate:   dropoff,
			Status:        types.BOOKING_PENDING,
			PaymentStatus: types.PAYMENT_PENDING,
			RentalAmount:  rental,
			Fees:          fees,
			TotalAmount:   total,
			BalanceDue:    total,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		event := models.BookingStatusEvent{
			BookingID: booking.ID,
			Status:    types.BOOKING_PENDING,
			Actor:     in.Actor,
			Note:      "booking requested",
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		booking.Vehicle = &vehicle
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// loadBookingForUpdate fetches the booking row under FOR UPDATE so a
// transition reads and writes the status atomically.
func loadBookingForUpdate(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(scopes.WithID(id)).
		First(&booking).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("booking", fmt.Sprint(id))
		}
		return nil, err
	}
	if !booking.Status.Valid() {
		return nil, fmt.Errorf("booking [%d] carries unknown status %q", id, booking.Status)
	}
	return &booking, nil
}

// transition applies one lifecycle step in a single transaction: status
// update, history append, plus any mutation the caller stages on the locked
// row before it is saved.
func transition(id uint, to types.BookingStatus, actor, note string, stage func(tx *gorm.DB, b *models.Booking) error) (*models.Booking, error) {
	var updated *models.Booking
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		booking, err := loadBookingForUpdate(tx, id)
		if err != nil {
			return err
		}
		if !CanTransition(booking.Status, to) {
			return &types.InvalidTransitionError{From: booking.Status, To: to}
		}
		if stage != nil {
			if err := stage(tx, booking); err != nil {
				return err
			}
		}
		if err := ApplyTransition(booking, to, time.Now(), actor, note); err != nil {
			return err
		}
		history := booking.StatusHistory
		booking.StatusHistory = nil
		if err := tx.Save(booking).Error; err != nil {
			return err
		}
		for i := range history {
			if history[i].ID == 0 {
				if err := tx.Create(&history[i]).Error; err != nil {
					return err
				}
			}
		}
		booking.StatusHistory = history
		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConfirmBooking drives pending -> confirmed after a verified payment event.
// The transition is durably committed before any notification is attempted.
func ConfirmBooking(id uint, paymentIntentID *string, amountPaid int64, actor string) (*models.Booking, error) {
	booking, err := transition(id, types.BOOKING_CONFIRMED, actor, "payment confirmed", func(tx *gorm.DB, b *models.Booking) error {
		b.PaymentStatus = types.PAYMENT_PAID
		b.PaymentIntentId = paymentIntentID
		b.AmountPaid = amountPaid
		b.BalanceDue = b.TotalAmount - amountPaid
		if b.BalanceDue < 0 {
			b.BalanceDue = 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	go NotifyBookingConfirmed(booking)
	return booking, nil
}

// HandoverBooking records the pickup inspection snapshot. Only a confirmed
// booking can be handed over.
func HandoverBooking(id uint, in *types.HandoverRequestBody, actor string) (*models.Booking, error) {
	return transition(id, types.BOOKING_HANDED_OVER, actor, "vehicle handed over", func(tx *gorm.DB, b *models.Booking) error {
		b.Handover = &models.HandoverRecord{
			Odometer:       in.Odometer,
			FuelLevel:      types.FuelLevel(in.FuelLevel),
			ConditionNotes: in.ConditionNotes,
			Inspector:      in.Inspector,
			Timestamp:      time.Now(),
		}
		return nil
	})
}

// StartUsage marks the rental as underway (handed_over -> in_use).
func StartUsage(id uint, actor, note string) (*models.Booking, error) {
	return transition(id, types.BOOKING_IN_USE, actor, note, nil)
}

// ReturnBooking records the return inspection, runs the surcharge calculator
// against the handover snapshot and adds the result to the booking total.
func ReturnBooking(id uint, in *types.ReturnRequestBody, actor string) (*models.Booking, error) {
	cfg := config.GetPricing()
	now := time.Now()
	return transition(id, types.BOOKING_RETURNED, actor, "vehicle returned", func(tx *gorm.DB, b *models.Booking) error {
		if b.Handover == nil {
			return types.NewValidationError("handover", "no handover record on file")
		}
		ret := &models.ReturnRecord{
			Odometer:       in.Odometer,
			FuelLevel:      types.FuelLevel(in.FuelLevel),
			ConditionNotes: in.ConditionNotes,
			Inspector:      in.Inspector,
			Timestamp:      now,
		}
		if ret.Odometer < b.Handover.Odometer {
			return types.NewValidationError("odometer", "return reading below handover reading")
		}
		charges, total := ComputeReturnSurcharges(b.Handover, ret, b.DropoffDate, now, cfg)
		ret.Surcharges = charges
		ret.SurchargeTotal = total
		b.Return = ret
		b.TotalAmount += total
		b.BalanceDue = b.TotalAmount - b.AmountPaid
		if b.BalanceDue < 0 {
			b.BalanceDue = 0
		}
		return nil
	})
}

// CompleteBooking closes out a returned or overdue booking. No counter is
// decremented anywhere: the status leaving the active set is what frees the
// unit for the availability engine.
func CompleteBooking(id uint, actor string) (*models.Booking, error) {
	return transition(id, types.BOOKING_COMPLETED, actor, "booking completed", nil)
}

// CancelBooking is valid from pending, confirmed and handed_over only. The
// refund amount is caller-supplied; the core does not compute refunds.
func CancelBooking(id uint, in *types.CancelBookingRequestBody, actor string) (*models.Booking, error) {
	now := time.Now()
	return transition(id, types.BOOKING_CANCELLED, actor, in.Reason, func(tx *gorm.DB, b *models.Booking) error {
		b.CancellationReason = &in.Reason
		b.RefundAmount = &in.RefundAmount
		b.CancelledAt = &now
		b.CancelledBy = &actor
		if in.RefundAmount > 0 && b.PaymentStatus == types.PAYMENT_PAID {
			b.PaymentStatus = types.PAYMENT_REFUNDED
		}
		return nil
	})
}

// MarkOverdueBookings is the periodic sweep body: every in_use booking past
// its dropoff gets the explicit in_use -> overdue transition.
func MarkOverdueBookings(now time.Time) (int, error) {
	db := db.GetDb()
	var candidates []models.Booking
	err := db.
		Model(&models.Booking{}).
		Scopes(scopes.WithStatus(string(types.BOOKING_IN_USE))).
		Where("dropoff_date < ?", now).
		Find(&candidates).
		Error
	if err != nil {
		return 0, err
	}
	marked := 0
	for i := range candidates {
		if !IsOverdue(&candidates[i], now) {
			continue
		}
		if _, err := transition(candidates[i].ID, types.BOOKING_OVERDUE, "system", "dropoff date passed without return", nil); err != nil {
			log.Printf("Could not mark booking %d overdue: %s\n", candidates[i].ID, err.Error())
			continue
		}
		marked++
	}
	return marked, nil
}

// DashboardStats aggregates booking counts by status and paid revenue for the
// admin dashboard.
type DashboardStats struct {
	CountsByStatus map[string]int64 `json:"counts_by_status"`
	RevenueTotal   int64            `json:"revenue_total"`
	RevenuePending int64            `json:"revenue_pending"`
}

func GetDashboardStats() (*DashboardStats, error) {
	db := db.GetDb()
	stats := &DashboardStats{CountsByStatus: map[string]int64{}}
	rows := []struct {
		Status string
		Count  int64
	}{}
	if err := db.
		Model(&models.Booking{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.CountsByStatus[r.Status] = r.Count
	}
	if err := db.
		Model(&models.Booking{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("payment_status = ?", types.PAYMENT_PAID).
		Scan(&stats.RevenueTotal).
		Error; err != nil {
		return nil, err
	}
	if err := db.
		Model(&models.Booking{}).
		Select("COALESCE(SUM(balance_due), 0)").
		Scopes(scopes.WithStatuses(ActiveStatusStrings()...)).
		Scan(&stats.RevenuePending).
		Error; err != nil {
		return nil, err
	}
	return stats, nil
}
