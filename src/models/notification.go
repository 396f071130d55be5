package models

import (
	"crbs/src/types"

	"github.com/google/uuid"
)

// Notification logs one outbound dispatch attempt per channel. Delivery
// failures are recorded here and never fail the booking transition that
// triggered them.
type Notification struct {
	ID        uuid.UUID                 `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	BookingID uint                      `gorm:"index" json:"booking_id"`
	Channel   types.NotificationChannel `json:"channel"`
	Recipient string                    `json:"recipient"`
	Subject   string                    `json:"subject,omitempty"`
	Body      *types.JSONB              `gorm:"type:jsonb" json:"body,omitempty"`
	Status    string                    `gorm:"default:'queued'" json:"status"`
	Error     *string                   `json:"error,omitempty"`

	types.Timestamps
}
