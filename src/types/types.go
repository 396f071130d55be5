package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Handler func(payload string)

// BookingStatus is the single canonical status enum. The transition table in
// common/lifecycle.go and every persisted row share this member set; values
// read back from the database are validated against it on load.
type BookingStatus string

const (
	BOOKING_PENDING     BookingStatus = "pending"
	BOOKING_CONFIRMED   BookingStatus = "confirmed"
	BOOKING_HANDED_OVER BookingStatus = "handed_over"
	BOOKING_IN_USE      BookingStatus = "in_use"
	BOOKING_OVERDUE     BookingStatus = "overdue"
	BOOKING_RETURNED    BookingStatus = "returned"
	BOOKING_COMPLETED   BookingStatus = "completed"
	BOOKING_CANCELLED   BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BOOKING_PENDING, BOOKING_CONFIRMED, BOOKING_HANDED_OVER, BOOKING_IN_USE,
		BOOKING_OVERDUE, BOOKING_RETURNED, BOOKING_COMPLETED, BOOKING_CANCELLED:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "pending"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_FAILED   PaymentStatus = "failed"
	PAYMENT_REFUNDED PaymentStatus = "refunded"
)

type VehicleCategory string

const (
	CATEGORY_HATCHBACK VehicleCategory = "hatchback"
	CATEGORY_SEDAN     VehicleCategory = "sedan"
	CATEGORY_SUV       VehicleCategory = "suv"
	CATEGORY_MUV       VehicleCategory = "muv"
	CATEGORY_LUXURY    VehicleCategory = "luxury"
)

func (c VehicleCategory) Valid() bool {
	switch c {
	case CATEGORY_HATCHBACK, CATEGORY_SEDAN, CATEGORY_SUV, CATEGORY_MUV, CATEGORY_LUXURY:
		return true
	}
	return false
}

type Transmission string

const (
	TRANSMISSION_MANUAL    Transmission = "manual"
	TRANSMISSION_AUTOMATIC Transmission = "automatic"
)

// FuelLevel is the 5-point ordinal tank reading recorded at handover and return.
type FuelLevel string

const (
	FUEL_EMPTY         FuelLevel = "empty"
	FUEL_QUARTER       FuelLevel = "quarter"
	FUEL_HALF          FuelLevel = "half"
	FUEL_THREE_QUARTER FuelLevel = "three_quarter"
	FUEL_FULL          FuelLevel = "full"
)

// Percent maps the ordinal reading onto a 0-100 scale.
func (f FuelLevel) Percent() (int, bool) {
	switch f {
	case FUEL_EMPTY:
		return 0, true
	case FUEL_QUARTER:
		return 25, true
	case FUEL_HALF:
		return 50, true
	case FUEL_THREE_QUARTER:
		return 75, true
	case FUEL_FULL:
		return 100, true
	}
	return 0, false
}

type NotificationChannel string

const (
	CHANNEL_EMAIL NotificationChannel = "email"
	CHANNEL_SMS   NotificationChannel = "sms"
)

type SurchargeType string

const (
	SURCHARGE_FUEL     SurchargeType = "fuel_shortfall"
	SURCHARGE_LATE     SurchargeType = "late_return"
	SURCHARGE_DISTANCE SurchargeType = "excess_distance"
	SURCHARGE_DAMAGE   SurchargeType = "damage"
)

// SurchargeLine is one applicable rule's contribution to the return bill.
// Amounts are in currency minor units.
type SurchargeLine struct {
	Type        SurchargeType `json:"type"`
	Description string        `json:"description"`
	Amount      int64         `json:"amount"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type BookingCodeParams struct {
	Code string `uri:"code" binding:"required"`
}

type CreateVehicleRequestBody struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category" binding:"required,oneof=hatchback sedan suv muv luxury"`
	Capacity     uint    `json:"capacity" binding:"required,min=1"`
	Transmission string  `json:"transmission" binding:"required,oneof=manual automatic"`
	DailyRate    int64   `json:"daily_rate" binding:"required,min=1"`
	Quantity     uint    `json:"quantity" binding:"required,min=1"`
	ImageURL     *string `json:"image_url,omitempty"`
}

type UpdateVehicleRequestBody struct {
	DailyRate   *int64 `json:"daily_rate,omitempty" binding:"omitempty,min=1"`
	Quantity    *uint  `json:"quantity,omitempty" binding:"omitempty,min=1"`
	IsAvailable *bool  `json:"is_available,omitempty"`
}

type CreateBookingRequestBody struct {
	VehicleID     uint   `json:"vehicle_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	PickupDate    string `json:"pickup_date" binding:"required,rentaldate" time_format:"2006-01-02"`
	DropoffDate   string `json:"dropoff_date" binding:"required,rentaldate,gtdate=PickupDate" time_format:"2006-01-02"`
}

type AvailabilityQuery struct {
	PickupDate  string `form:"pickup_date" binding:"required"`
	DropoffDate string `form:"dropoff_date" binding:"required"`
	ExcludeID   uint   `form:"exclude"`
}

type VehicleListQuery struct {
	Category     string `form:"category"`
	Transmission string `form:"transmission"`
	Capacity     uint   `form:"capacity"`
	PickupDate   string `form:"pickup_date"`
	DropoffDate  string `form:"dropoff_date"`
}

type BookingListQuery struct {
	Status    string `form:"status"`
	VehicleID uint   `form:"vehicle"`
	Limit     int    `form:"limit"`
}

type HandoverRequestBody struct {
	Odometer       uint   `json:"odometer" binding:"required"`
	FuelLevel      string `json:"fuel_level" binding:"required,oneof=empty quarter half three_quarter full"`
	ConditionNotes string `json:"condition_notes,omitempty"`
	Inspector      string `json:"inspector" binding:"required"`
}

type ReturnRequestBody struct {
	Odometer       uint   `json:"odometer" binding:"required"`
	FuelLevel      string `json:"fuel_level" binding:"required,oneof=empty quarter half three_quarter full"`
	ConditionNotes string `json:"condition_notes,omitempty"`
	Inspector      string `json:"inspector" binding:"required"`
}

type CancelBookingRequestBody struct {
	Reason       string `json:"reason" binding:"required"`
	RefundAmount int64  `json:"refund_amount,omitempty" binding:"omitempty,min=0"`
}

type TransitionNote struct {
	Note string `json:"note,omitempty"`
}
