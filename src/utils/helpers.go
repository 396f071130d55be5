package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

// WithSuffix appends the environment suffix to a queue or topic name so
// staging and production traffic stay separated.
func WithSuffix(name string) string {
	suffix := os.Getenv("QUEUE_SUFFIX")
	if suffix == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", name, suffix)
}

// NewBookingCode mints the human-readable booking reference, e.g. CR-9F2A41D6.
func NewBookingCode() string {
	id := uuid.NewString()
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))[:8]
	return fmt.Sprintf("CR-%s", short)
}

// VehicleSlug derives the catalog URL slug for a vehicle name.
func VehicleSlug(name string) string {
	return slug.Make(name)
}
