package boot

import (
	"fmt"
	"log"
	"time"

	"crbs/src/common"
	"crbs/src/db"
	"crbs/src/lib"
	awslib "crbs/src/lib/aws"
	"crbs/src/models"
	"crbs/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Vehicle{},
		&models.Booking{},
		&models.BookingStatusEvent{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

const overdueSweepInterval = 15 * time.Minute

// InitScheduler starts the in-process scheduler and registers the overdue
// sweep, which drives the in_use -> overdue transition for bookings past
// their scheduled dropoff. Sweep results go out on an ops topic so fleet
// tooling can react to overdue vehicles.
func InitScheduler() {
	id, err := lib.CreateCronJob(func() {
		marked, err := common.MarkOverdueBookings(time.Now())
		if err != nil {
			log.Printf("Overdue sweep failed: %s\n", err.Error())
			return
		}
		if marked > 0 {
			log.Printf("Overdue sweep marked %d booking(s)\n", marked)
			payload := fmt.Sprintf(`{"event":"bookings.overdue","count":%d}`, marked)
			if err := awslib.SNSPublishTopic(utils.WithSuffix("BookingOps"), payload); err != nil {
				log.Printf("Could not publish sweep result: %s\n", err.Error())
			}
		}
	}, overdueSweepInterval)
	if err != nil {
		log.Printf("Error registering job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}

// InitConsumers wires the queue consumers that handle asynchronous work.
func InitConsumers() {
	common.SQSConsumers()
}
