package common

import (
	"fmt"
	"log"
	"srs/src/config"
	"srs/src/db"
	"srs/src/lib"
	"srs/src/models"
	"srs/src/types"
	"time"
)

// Reminder windows. Each polling job picks up reservations whose start or
// end falls inside [now+from, now+to); the window is padded by the polling
// interval so nothing slips between two runs.
func startingSoonWindow(now time.Time) (time.Time, time.Time) {
	return now.Add(60 * time.Minute), now.Add(65 * time.Minute)
}

func startingNowWindow(now time.Time) (time.Time, time.Time) {
	return now, now.Add(2 * time.Minute)
}

func endingSoonWindow(now time.Time) (time.Time, time.Time) {
	return now.Add(15 * time.Minute), now.Add(20 * time.Minute)
}

func endedWindow(now time.Time) (time.Time, time.Time) {
	return now.Add(-5 * time.Minute), now
}

func reservationsInWindow(column string, from, to time.Time) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	expr := fmt.Sprintf("(date || ' ' || %s)::timestamp BETWEEN ? AND ?", column)
	err := db.GetDb().
		Preload("Seat").
		Preload("Intern").
		Where("status = ?", types.RESERVATION_ACTIVE).
		Where(expr, from.Format(config.TIME_PARSE_FORMAT), to.Format(config.TIME_PARSE_FORMAT)).
		Find(&reservations).
		Error
	return reservations, err
}

func remindStartingSoon() {
	from, to := startingSoonWindow(time.Now())
	reservations, err := reservationsInWindow("start_time", from, to)
	if err != nil {
		log.Printf("1-hour reminder error: %s\n", err.Error())
		return
	}
	for i := range reservations {
		r := &reservations[i]
		if r.Seat == nil || r.Intern == nil {
			continue
		}
		body := fmt.Sprintf(`<h3>Reservation Reminder</h3>
<p>Hello %s, this is a reminder that your seat <b>%s</b> reservation starts in 1 hour.</p>
<ul><li>Seat: %s</li><li>Date: %s</li><li>Time: %s - %s</li><li>Location: %s</li></ul>
<p>Please be ready!</p>`,
			r.Intern.Name, r.Seat.SeatNumber, r.Seat.SeatNumber, r.Date, r.StartTime, r.EndTime, r.Seat.Location)
		sendEmail(r.Intern.Email, "Reservation Starting in 1 Hour", body, "")
		sendSMS(r.Intern.Phone, fmt.Sprintf("Reminder: Hi %s, your seat reservation (%s) starts in 1 hour at %s. Don't forget!", r.Intern.Name, r.Seat.SeatNumber, r.StartTime))
		log.Printf("1-hour reminder sent to %s for seat %s\n", r.Intern.Name, r.Seat.SeatNumber)
	}
}

func remindStartingNow() {
	from, to := startingNowWindow(time.Now())
	reservations, err := reservationsInWindow("start_time", from, to)
	if err != nil {
		log.Printf("Reservation starting notification error: %s\n", err.Error())
		return
	}
	for i := range reservations {
		r := &reservations[i]
		if r.Seat == nil || r.Intern == nil {
			continue
		}
		sendSMS(r.Intern.Phone, fmt.Sprintf("Your reservation is starting now! Hi %s, please proceed to seat %s.", r.Intern.Name, r.Seat.SeatNumber))
		log.Printf("Reservation starting notification sent to %s for seat %s\n", r.Intern.Name, r.Seat.SeatNumber)
	}
}

func remindEndingSoon() {
	from, to := endingSoonWindow(time.Now())
	reservations, err := reservationsInWindow("end_time", from, to)
	if err != nil {
		log.Printf("Reservation ending warning error: %s\n", err.Error())
		return
	}
	for i := range reservations {
		r := &reservations[i]
		if r.Seat == nil || r.Intern == nil {
			continue
		}
		sendSMS(r.Intern.Phone, fmt.Sprintf("Reservation ending soon! Hi %s, your seat %s reservation ends at %s (15 minutes remaining).", r.Intern.Name, r.Seat.SeatNumber, r.EndTime))
		log.Printf("Reservation ending warning sent to %s for seat %s\n", r.Intern.Name, r.Seat.SeatNumber)
	}
}

func remindEnded() {
	from, to := endedWindow(time.Now())
	reservations, err := reservationsInWindow("end_time", from, to)
	if err != nil {
		log.Printf("Reservation ended notification error: %s\n", err.Error())
		return
	}
	for i := range reservations {
		r := &reservations[i]
		if r.Seat == nil || r.Intern == nil {
			continue
		}
		sendSMS(r.Intern.Phone, fmt.Sprintf("Reservation completed! Hi %s, your time for seat %s has ended. Thank you!", r.Intern.Name, r.Seat.SeatNumber))
		log.Printf("Reservation ended notification sent to %s for seat %s\n", r.Intern.Name, r.Seat.SeatNumber)
	}
}

// StartReminderJobs registers the four polling reminder jobs.
func StartReminderJobs() {
	if _, err := lib.CreateCronJob(remindStartingSoon, 5*time.Minute); err != nil {
		log.Printf("Could not register 1-hour reminder job: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob(remindStartingNow, time.Minute); err != nil {
		log.Printf("Could not register starting-now job: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob(remindEndingSoon, 5*time.Minute); err != nil {
		log.Printf("Could not register ending-soon job: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob(remindEnded, time.Minute); err != nil {
		log.Printf("Could not register ended job: %s\n", err.Error())
	}
	log.Println("Reminder jobs registered: 1-hour (5m), starting (1m), ending-soon (5m), ended (1m)")
}
