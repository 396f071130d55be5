package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingCode(t *testing.T) {
	code := NewBookingCode()
	assert.True(t, strings.HasPrefix(code, "CR-"))
	assert.Len(t, code, 11)
	assert.Equal(t, strings.ToUpper(code), code)

	other := NewBookingCode()
	assert.NotEqual(t, code, other)
}

func TestVehicleSlug(t *testing.T) {
	assert.Equal(t, "toyota-corolla-2024", VehicleSlug("Toyota Corolla 2024"))
	assert.Equal(t, "suzuki-swift", VehicleSlug("  Suzuki   Swift "))
}

func TestWithSuffix(t *testing.T) {
	t.Setenv("QUEUE_SUFFIX", "")
	assert.Equal(t, "BookingEmails", WithSuffix("BookingEmails"))

	t.Setenv("QUEUE_SUFFIX", "staging")
	assert.Equal(t, "BookingEmails-staging", WithSuffix("BookingEmails"))
}
