package common

import (
	"fmt"
	"log"
	"os"
	"time"

	"crbs/src/db"
	"crbs/src/lib"
	awslib "crbs/src/lib/aws"
	"crbs/src/lib/mailer"
	"crbs/src/models"
	"crbs/src/types"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// NotifyBookingConfirmed dispatches the confirmation to every channel after
// the confirmed transition has been committed. Dispatch is fire-and-forget:
// per-channel results land on the booking's notifications status and in the
// notification log, and a channel being down never affects the booking.
func NotifyBookingConfirmed(b *models.Booking) {
	if b == nil {
		return
	}
	results := types.JSONB{}

	subject := fmt.Sprintf("Booking %s confirmed", b.BookingCode)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour booking %s is confirmed.\r\nPickup: %s\r\nDropoff: %s\r\nAmount paid: %.2f\r\n\r\nPlease carry a valid driving licence at pickup.\r\n",
		b.CustomerName,
		b.BookingCode,
		b.PickupDate.Format("02 Jan 2006"),
		b.DropoffDate.Format("02 Jan 2006"),
		float64(b.AmountPaid)/100,
	)
	from := os.Getenv("MAIL_FROM")
	if err := mailer.NewMailerMessage(&lib.SendMailInput{
		From:     from,
		FromName: "Rentals",
		To:       []string{b.CustomerEmail},
		Subject:  subject,
		Body:     body,
	}); err != nil {
		log.Printf("Email dispatch failed for booking %s: %s\n", b.BookingCode, err.Error())
		results[string(types.CHANNEL_EMAIL)] = "failed"
		recordNotification(b, types.CHANNEL_EMAIL, b.CustomerEmail, subject, "failed", err)
	} else {
		results[string(types.CHANNEL_EMAIL)] = "queued"
		recordNotification(b, types.CHANNEL_EMAIL, b.CustomerEmail, subject, "queued", nil)
	}

	sms := fmt.Sprintf("Booking %s confirmed. Pickup %s. Show this code at the counter.",
		b.BookingCode, b.PickupDate.Format("02 Jan"))
	if err := awslib.SNSPublishSMS(b.CustomerPhone, sms); err != nil {
		log.Printf("SMS dispatch failed for booking %s: %s\n", b.BookingCode, err.Error())
		results[string(types.CHANNEL_SMS)] = "failed"
		recordNotification(b, types.CHANNEL_SMS, b.CustomerPhone, "", "failed", err)
	} else {
		results[string(types.CHANNEL_SMS)] = "sent"
		recordNotification(b, types.CHANNEL_SMS, b.CustomerPhone, "", "sent", nil)
	}

	results["dispatched_at"] = time.Now().UTC().Format(time.RFC3339)
	dbi := db.GetDb()
	if err := dbi.
		Model(&models.Booking{}).
		Where("id = ?", b.ID).
		Update("notifications_status", &results).
		Error; err != nil {
		log.Printf("Could not record notification status for booking %s: %s\n", b.BookingCode, err.Error())
	}

	schedulePickupReminder(b)
}

// schedulePickupReminder registers a one-shot job that emails the customer a
// day before pickup. Reminders for next-day pickups are skipped; the
// confirmation email already carries the date.
func schedulePickupReminder(b *models.Booking) {
	remindAt := b.PickupDate.AddDate(0, 0, -1).Add(9 * time.Hour)
	if !remindAt.After(time.Now()) {
		return
	}
	code := b.BookingCode
	email := b.CustomerEmail
	name := b.CustomerName
	pickup := b.PickupDate.Format("02 Jan 2006")
	id, err := lib.CreateOneTimeCronJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(remindAt)),
		gocron.NewTask(func() {
			body := fmt.Sprintf("Hi %s,\r\n\r\nReminder: your booking %s is scheduled for pickup on %s.\r\n", name, code, pickup)
			if err := mailer.NewMailerMessage(&lib.SendMailInput{
				From:     os.Getenv("MAIL_FROM"),
				FromName: "Rentals",
				To:       []string{email},
				Subject:  fmt.Sprintf("Pickup reminder for booking %s", code),
				Body:     body,
			}); err != nil {
				log.Printf("Reminder dispatch failed for booking %s: %s\n", code, err.Error())
			}
		}),
	)
	if err != nil {
		log.Printf("Could not schedule pickup reminder for booking %s: %s\n", code, err.Error())
		return
	}
	log.Printf("Scheduled pickup reminder %s for booking %s\n", *id, code)
}

func recordNotification(b *models.Booking, channel types.NotificationChannel, recipient, subject, status string, cause error) {
	dbi := db.GetDb()
	n := models.Notification{
		BookingID: b.ID,
		Channel:   channel,
		Recipient: recipient,
		Subject:   subject,
		Status:    status,
	}
	if cause != nil {
		msg := cause.Error()
		n.Error = &msg
	}
	err := dbi.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&n).Error
	})
	if err != nil {
		log.Printf("Could not write notification log for booking %d: %s\n", b.ID, err.Error())
	}
}
