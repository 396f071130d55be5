package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"crbs/src/common"
	"crbs/src/config"
	"crbs/src/db"
	"crbs/src/lib"
	"crbs/src/models"
	"crbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			pickup, err := common.ParseDate("pickup_date", body.PickupDate)
			if err != nil {
				respondDomainError(ctx, err)
				return
			}
			dropoff, err := common.ParseDate("dropoff_date", body.DropoffDate)
			if err != nil {
				respondDomainError(ctx, err)
				return
			}
			booking, err := common.CreateBooking(&common.CreateBookingInput{
				VehicleID:     body.VehicleID,
				CustomerName:  body.CustomerName,
				CustomerEmail: body.CustomerEmail,
				CustomerPhone: body.CustomerPhone,
				Pickup:        pickup,
				Dropoff:       dropoff,
				Actor:         body.CustomerEmail,
			})
			if err != nil {
				respondDomainError(ctx, err)
				return
			}

			// The booking exists in pending regardless of whether checkout
			// session creation succeeds; payment can be retried.
			pricing := config.GetPricing()
			vehicleName := ""
			if booking.Vehicle != nil {
				vehicleName = booking.Vehicle.Name
			}
			var paymentURL *string
			url, csID, err := lib.CreateBookingCheckout(booking.BookingCode, vehicleName, pricing.Currency, booking.TotalAmount)
			if err != nil {
				log.Printf("Could not create checkout for booking %s: %s\n", booking.BookingCode, err.Error())
			} else {
				paymentURL = url
				db := db.GetDb()
				if err := db.
					Model(&models.Booking{}).
					Where("id = ?", booking.ID).
					Update("checkout_session_id", csID).
					Error; err != nil {
					log.Printf("Could not record checkout session for booking %s: %s\n", booking.BookingCode, err.Error())
				}
				booking.CheckoutSessionId = csID
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking, "payment_url": paymentURL})
		}).
		GET("/bookings/:code", func(ctx *gin.Context) {
			var params types.BookingCodeParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{BookingCode: params.Code}).
				Preload("Vehicle").
				Preload("StatusHistory").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/:code/qr", func(ctx *gin.Context) {
			var params types.BookingCodeParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Select("id", "booking_code", "status").
				Where(&models.Booking{BookingCode: params.Code}).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			qrc, err := qrcode.New(booking.BookingCode)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate code"})
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			if tempdir == "" {
				tempdir = os.TempDir()
			}
			filepath := path.Join(tempdir, fmt.Sprintf("%s.jpeg", booking.BookingCode))
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate code"})
				return
			}
			ctx.FileAttachment(filepath, "booking-code.jpeg")
		})
	return g
}
