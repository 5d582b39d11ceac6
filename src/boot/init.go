package boot

import (
	"log"
	"os"
	"srs/src/common"
	"srs/src/db"
	"srs/src/lib"
	"srs/src/models"
	"srs/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Seat{},
		&models.Reservation{},
		&models.Credential{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler registers the reminder jobs and starts the scheduler.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	common.StartReminderJobs()
	log.Printf("Jobs in queue: %d\n", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

// InitBroker prepares the email queue and attaches its consumer. Locally the
// queue is a Kafka topic that may not exist yet on a fresh broker.
func InitBroker() {
	if utils.IsLocal() {
		go lib.KafkaCreateTopics(utils.WithSuffix(os.Getenv("EMAIL_QUEUE")))
	}
	go common.StartEmailConsumer()
}
