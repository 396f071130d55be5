package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"crbs/src/types"
)

// HandoverRecord is the inspection snapshot taken when the keys change hands.
type HandoverRecord struct {
	Odometer       uint            `json:"odometer"`
	FuelLevel      types.FuelLevel `json:"fuel_level"`
	ConditionNotes string          `json:"condition_notes,omitempty"`
	Inspector      string          `json:"inspector"`
	Timestamp      time.Time       `json:"timestamp"`
}

func (r HandoverRecord) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	return string(b), err
}
func (r *HandoverRecord) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, r)
}

// ReturnRecord is the snapshot taken at vehicle return, including the
// surcharge breakdown the calculator produced from it.
type ReturnRecord struct {
	Odometer       uint                  `json:"odometer"`
	FuelLevel      types.FuelLevel       `json:"fuel_level"`
	ConditionNotes string                `json:"condition_notes,omitempty"`
	Inspector      string                `json:"inspector"`
	Timestamp      time.Time             `json:"timestamp"`
	Surcharges     []types.SurchargeLine `json:"surcharges,omitempty"`
	SurchargeTotal int64                 `json:"surcharge_total"`
}

func (r ReturnRecord) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	return string(b), err
}
func (r *ReturnRecord) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, r)
}

// Booking reserves one unit of a vehicle type for [PickupDate, DropoffDate],
// dates inclusive and normalized to midnight UTC. Rows are never physically
// deleted; cancelled and completed are terminal soft states kept for audit.
// Monetary amounts are in currency minor units.
type Booking struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	BookingCode   string `gorm:"uniqueIndex" json:"booking_code,omitempty"`
	VehicleID     uint   `gorm:"index" json:"vehicle_id,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`

	PickupDate  time.Time `gorm:"index" json:"pickup_date,omitempty"`
	DropoffDate time.Time `gorm:"index" json:"dropoff_date,omitempty"`

	Status        types.BookingStatus `gorm:"type:varchar(16);index;default:'pending'" json:"status,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"type:varchar(16);default:'pending'" json:"payment_status,omitempty"`

	RentalAmount int64 `json:"rental_amount,omitempty"`
	Fees         int64 `json:"fees,omitempty"`
	TotalAmount  int64 `json:"total_amount,omitempty"`
	AmountPaid   int64 `json:"amount_paid,omitempty"`
	BalanceDue   int64 `json:"balance_due,omitempty"`

	Handover *HandoverRecord `gorm:"type:jsonb" json:"handover,omitempty"`
	Return   *ReturnRecord   `gorm:"type:jsonb" json:"return,omitempty"`

	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	RefundAmount       *int64     `json:"refund_amount,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *string    `json:"cancelled_by,omitempty"`

	CheckoutSessionId   *string      `json:"-"`
	PaymentIntentId     *string      `json:"-"`
	NotificationsStatus *types.JSONB `gorm:"type:jsonb" json:"notifications_status,omitempty"`

	Vehicle       *Vehicle             `gorm:"foreignKey:vehicle_id" json:"vehicle,omitempty"`
	StatusHistory []BookingStatusEvent `gorm:"foreignKey:booking_id" json:"status_history,omitempty"`

	types.Timestamps
}

// BookingStatusEvent is one entry in a booking's append-only status history.
// Rows are inserted alongside each transition and never mutated afterwards.
type BookingStatusEvent struct {
	ID        uint                `gorm:"primarykey" json:"id"`
	BookingID uint                `gorm:"index" json:"booking_id,omitempty"`
	Status    types.BookingStatus `gorm:"type:varchar(16)" json:"status,omitempty"`
	Actor     string              `json:"actor,omitempty"`
	Note      string              `json:"note,omitempty"`
	CreatedAt time.Time           `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
}
