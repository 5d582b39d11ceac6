package common

import (
	"fmt"
	"log"
	"os"
	"srs/src/lib"
	"srs/src/lib/mailer"
	"srs/src/models"
	"srs/src/utils"

	"google.golang.org/api/calendar/v3"
)

const emailFromName = "Seat Reservation System"

func emailFrom() string {
	return os.Getenv("EMAIL_FROM")
}

// sendEmail enqueues one message for the mailer worker. Delivery problems
// are logged and swallowed: notifications never fail the request that
// triggered them.
func sendEmail(to string, subject string, body string, ics string) {
	input := &lib.SendMailInput{
		From:     emailFrom(),
		FromName: emailFromName,
		To:       []string{to},
		Subject:  subject,
		Body:     body,
		Html:     true,
		ICS:      ics,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("Could not enqueue email [%s] to %s: %s\n", subject, to, err.Error())
	}
}

func sendSMS(phone *string, message string) {
	if phone == nil || *phone == "" {
		return
	}
	if utils.IsLocal() {
		log.Printf("SMS to %s: %s\n", *phone, message)
		return
	}
	if err := lib.SNSPublishSMS(*phone, message); err != nil {
		log.Printf("Could not send SMS to %s: %s\n", *phone, err.Error())
	}
}

func reservationICS(r *models.Reservation) string {
	if r.Seat == nil {
		return ""
	}
	start, err := utils.ParseStartInstant(r.Date, r.StartTime)
	if err != nil {
		return ""
	}
	end, err := utils.ParseStartInstant(r.Date, r.EndTime)
	if err != nil {
		return ""
	}
	uid := fmt.Sprintf("reservation-%d@%s", r.ID, os.Getenv("API_DOMAIN"))
	summary := fmt.Sprintf("Seat %s reserved", r.Seat.SeatNumber)
	return lib.BuildReservationICS(uid, summary, r.Seat.Location, start, end)
}

func reservationCalendarEvent(r *models.Reservation) *calendar.Event {
	if r.Seat == nil {
		return nil
	}
	start, err := utils.ParseStartInstant(r.Date, r.StartTime)
	if err != nil {
		return nil
	}
	end, err := utils.ParseStartInstant(r.Date, r.EndTime)
	if err != nil {
		return nil
	}
	return &calendar.Event{
		Summary:     fmt.Sprintf("Seat %s reserved", r.Seat.SeatNumber),
		Location:    r.Seat.Location,
		Description: "Your reserved seat at the office.",
		Start:       &calendar.EventDateTime{DateTime: start.Format("2006-01-02T15:04:05-07:00")},
		End:         &calendar.EventDateTime{DateTime: end.Format("2006-01-02T15:04:05-07:00")},
	}
}

// addReservationCalendarEvent pushes the reservation onto the configured
// Google Calendar. Best effort: a missing or stale calendar credential only
// produces a log line.
func addReservationCalendarEvent(r *models.Reservation) {
	event := reservationCalendarEvent(r)
	if event == nil {
		return
	}
	calId := os.Getenv("CALENDAR_ID")
	if calId == "" {
		calId = "primary"
	}
	if err := lib.GAPIAddEvent(calId, event, nil); err != nil {
		log.Printf("Could not add calendar event for reservation [%d]: %s\n", r.ID, err.Error())
	}
}

func NotifyUserRegistration(user *models.User) {
	body := fmt.Sprintf(`<h3>Welcome!</h3>
<p>Hi <b>%s</b>, your %s account has been created.</p>
<ul><li>Name: %s</li><li>Email: %s</li></ul>
<p>Log in to explore available seats and make your first reservation.</p>`,
		user.Name, user.Role, user.Name, user.Email)
	sendEmail(user.Email, "Welcome to Seat Reservation System", body, "")
	sendSMS(user.Phone, fmt.Sprintf("Welcome to Seat Reservation System! Hi %s, your %s account has been created successfully.", user.Name, user.Role))
}

func NotifySeatReserved(r *models.Reservation) {
	if r.Seat == nil || r.Intern == nil {
		return
	}
	body := fmt.Sprintf(`<h3>Seat Reserved</h3>
<p>Hi <b>%s</b>, your seat reservation has been confirmed.</p>
<ul><li>Seat: %s</li><li>Location: %s</li><li>Date: %s</li><li>Time: %s - %s</li></ul>
<p>Please arrive on time, and cancel if you can't make it.</p>`,
		r.Intern.Name, r.Seat.SeatNumber, r.Seat.Location, r.Date, r.StartTime, r.EndTime)
	sendEmail(r.Intern.Email, "Seat Reserved Successfully", body, reservationICS(r))
	sendSMS(r.Intern.Phone, fmt.Sprintf("Seat Reserved! Hi %s, your seat %s is confirmed for %s from %s to %s.", r.Intern.Name, r.Seat.SeatNumber, r.Date, r.StartTime, r.EndTime))
	addReservationCalendarEvent(r)
}

func NotifyReservationCancelled(r *models.Reservation) {
	if r.Seat == nil || r.Intern == nil {
		return
	}
	body := fmt.Sprintf(`<h3>Reservation Cancelled</h3>
<p>Hi <b>%s</b>, your seat reservation has been cancelled.</p>
<ul><li>Seat: %s</li><li>Date: %s</li><li>Time: %s - %s</li></ul>
<p>You can make a new reservation anytime.</p>`,
		r.Intern.Name, r.Seat.SeatNumber, r.Date, r.StartTime, r.EndTime)
	sendEmail(r.Intern.Email, "Reservation Cancelled", body, "")
	sendSMS(r.Intern.Phone, fmt.Sprintf("Reservation Cancelled. Hi %s, your reservation for seat %s on %s (%s-%s) has been cancelled.", r.Intern.Name, r.Seat.SeatNumber, r.Date, r.StartTime, r.EndTime))
}

func NotifyReservationEdited(r *models.Reservation) {
	if r.Seat == nil || r.Intern == nil {
		return
	}
	body := fmt.Sprintf(`<h3>Reservation Updated</h3>
<p>Hi <b>%s</b>, your seat reservation has been updated. New details:</p>
<ul><li>Seat: %s</li><li>Date: %s</li><li>Time: %s - %s</li></ul>`,
		r.Intern.Name, r.Seat.SeatNumber, r.Date, r.StartTime, r.EndTime)
	sendEmail(r.Intern.Email, "Reservation Updated", body, reservationICS(r))
	sendSMS(r.Intern.Phone, fmt.Sprintf("Reservation Updated! Hi %s, your reservation has been changed to seat %s on %s from %s to %s.", r.Intern.Name, r.Seat.SeatNumber, r.Date, r.StartTime, r.EndTime))
	addReservationCalendarEvent(r)
}

func NotifySeatAdded(seat *models.Seat, adminEmail string) {
	if adminEmail == "" {
		return
	}
	body := fmt.Sprintf(`<h3>New Seat Added</h3>
<p>A new seat has been added to the system.</p>
<ul><li>Seat Number: %s</li><li>Location: %s</li></ul>`, seat.SeatNumber, seat.Location)
	sendEmail(adminEmail, "New Seat Added", body, "")
}

func NotifySeatUpdated(seat *models.Seat, adminEmail string) {
	if adminEmail == "" {
		return
	}
	body := fmt.Sprintf(`<h3>Seat Updated</h3>
<p>A seat has been updated in the system.</p>
<ul><li>Seat Number: %s</li><li>Location: %s</li></ul>`, seat.SeatNumber, seat.Location)
	sendEmail(adminEmail, "Seat Updated", body, "")
}

func NotifySeatRemoved(seat *models.Seat, adminEmail string) {
	if adminEmail == "" {
		return
	}
	body := fmt.Sprintf(`<h3>Seat Deleted</h3>
<p>A seat has been removed from the system.</p>
<ul><li>Seat Number: %s</li><li>Location: %s</li></ul>`, seat.SeatNumber, seat.Location)
	sendEmail(adminEmail, "Seat Deleted", body, "")
}

func NotifyQRLoginCode(to string, admin *models.User, submittedEmail string, code string) {
	body := fmt.Sprintf(`<h3>Admin QR Login Attempt</h3>
<p>Someone is attempting to log in as an admin using QR code authentication.</p>
<ul><li>Admin ID: %d</li><li>Admin Name: %s</li><li>Email Used: %s</li></ul>
<h2>%s</h2>
<p>Enter this code on your computer to complete the login. It expires in 10 minutes.</p>
<p>If you didn't initiate this login, ignore this email and contact your system administrator.</p>`,
		admin.ID, admin.Name, submittedEmail, code)
	sendEmail(to, "QR Login Verification Code - Seat Reservation System", body, "")
}

func NotifyQRLoginSuccess(to string, admin *models.User) {
	body := fmt.Sprintf(`<h3>QR Login Successful</h3>
<p>Hello %s, you have successfully logged in using QR code authentication.</p>`, admin.Name)
	sendEmail(to, "QR Login Successful - Seat Reservation System", body, "")
}
