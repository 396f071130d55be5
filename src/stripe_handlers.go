package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"

	"crbs/src/common"
	"crbs/src/db"
	"crbs/src/models"
	"crbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			respondDomainError(ctx, &types.PaymentVerificationError{Reference: "stripe-signature"})
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			err := json.Unmarshal(event.Data.Raw, &cs)
			if err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			log.Printf("[CheckoutSession] ID: %s %s\n", cs.ID, cs.Status)
			code := cs.Metadata["booking_code"]
			if code == "" {
				log.Printf("[%s] No booking_code in metadata\n", cs.ID)
				break
			}
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Select("id", "booking_code", "status").
				Where(&models.Booking{BookingCode: code}).
				First(&booking).
				Error; err != nil {
				log.Printf("Could not find booking for code %s: %s\n", code, err.Error())
				break
			}
			var paymentIntentID *string
			if cs.PaymentIntent != nil {
				paymentIntentID = &cs.PaymentIntent.ID
			}
			if _, err := common.ConfirmBooking(booking.ID, paymentIntentID, cs.AmountTotal, "stripe"); err != nil {
				log.Printf("Could not confirm booking %s: %s\n", code, err.Error())
			}
		case "payment_intent.payment_failed":
			var pi stripe.PaymentIntent
			err := json.Unmarshal(event.Data.Raw, &pi)
			if err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			code := pi.Metadata["booking_code"]
			if code == "" {
				break
			}
			db := db.GetDb()
			if err := db.
				Model(&models.Booking{}).
				Where("booking_code = ?", code).
				Update("payment_status", types.PAYMENT_FAILED).
				Error; err != nil {
				log.Printf("Could not mark payment failed for booking %s: %s\n", code, err.Error())
			}
		}
		ctx.Status(http.StatusNoContent)
	})
	return g
}
