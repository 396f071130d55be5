package main

import (
	"errors"
	"log"
	"net/http"

	"crbs/src/lib"
	"crbs/src/types"

	"github.com/gin-gonic/gin"
)

// respondDomainError translates the typed domain errors into conventional
// REST responses. The core never logs or swallows; this is where errors
// become user-facing.
func respondDomainError(ctx *gin.Context, err error) {
	var validationErr *types.ValidationError
	var notFoundErr *types.NotFoundError
	var transitionErr *types.InvalidTransitionError
	var capacityErr *types.CapacityExceededError
	var paymentErr *types.PaymentVerificationError

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &notFoundErr):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &transitionErr):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": transitionErr.Error(),
			"from":  transitionErr.From,
			"to":    transitionErr.To,
		})
	case errors.As(err, &capacityErr):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":     capacityErr.Error(),
			"available": capacityErr.AvailableUnits,
			"requested": capacityErr.RequestedUnits,
		})
	case errors.As(err, &paymentErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": paymentErr.Error()})
	case errors.Is(err, lib.ErrVehicleLocked):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Unhandled error: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}
