package models

import "crbs/src/types"

// Vehicle is a rentable vehicle type. Quantity is the number of physical
// units of this type in the fleet; availability for a date range is always
// derived by the availability engine, never stored. IsAvailable is a manual
// kill-switch for the catalog and is not load-bearing for the allocator.
type Vehicle struct {
	ID           uint                  `gorm:"primarykey" json:"id"`
	Name         string                `json:"name,omitempty"`
	Slug         string                `gorm:"uniqueIndex" json:"slug,omitempty"`
	Category     types.VehicleCategory `gorm:"index" json:"category,omitempty"`
	Capacity     uint                  `json:"capacity,omitempty"`
	Transmission types.Transmission    `json:"transmission,omitempty"`
	DailyRate    int64                 `json:"daily_rate,omitempty"`
	Quantity     uint                  `gorm:"default:1" json:"quantity,omitempty"`
	IsAvailable  bool                  `gorm:"default:true" json:"is_available"`
	ImageURL     *string               `json:"image_url,omitempty"`

	Bookings []Booking `json:"bookings,omitempty"`

	types.Timestamps
}
