package types

import "fmt"

// ValidationError reports caller-correctable malformed input along with the
// offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s [%s] not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidTransitionError carries the current and attempted state so the
// caller can reconcile its view of the booking.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking status transition: %s -> %s", e.From, e.To)
}

// CapacityExceededError reports the computed available/requested unit counts
// so the caller can suggest alternatives.
type CapacityExceededError struct {
	VehicleID      uint
	AvailableUnits int
	RequestedUnits int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("vehicle [%d] has no units available: requested=%d available=%d",
		e.VehicleID, e.RequestedUnits, e.AvailableUnits)
}

// PaymentVerificationError signals a signature mismatch on an inbound payment
// confirmation. No state change is ever applied alongside it.
type PaymentVerificationError struct {
	Reference string
}

func (e *PaymentVerificationError) Error() string {
	return fmt.Sprintf("payment confirmation signature mismatch for [%s]", e.Reference)
}
