package lib

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path"
	"time"

	ics "github.com/arran4/golang-ical"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var calsvc *calendar.Service

func getCalendarClient(conf *oauth2.Config) (*http.Client, error) {
	tokFile, err := os.Open("token.json")
	if err != nil {
		return nil, err
	}
	defer tokFile.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(tokFile).Decode(tok); err != nil {
		return nil, err
	}

	cli := conf.Client(context.Background(), tok)
	return cli, nil
}

func gapiGetCalendarService() (svc *calendar.Service, err error) {
	if calsvc != nil {
		return calsvc, nil
	}
	secretsPath := os.Getenv("SECRETS_DIR")
	b, err := os.ReadFile(path.Join(secretsPath, "client_secret.json"))
	if err != nil {
		return nil, err
	}
	conf, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, err
	}
	cli, err := getCalendarClient(conf)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(context.Background(), option.WithHTTPClient(cli))
	if err != nil {
		return nil, err
	}
	calsvc = srv
	return srv, nil
}

func GAPIAddEvent(calId string, e *calendar.Event, s *calendar.Service) (err error) {
	if s == nil {
		s, err = gapiGetCalendarService()
		if err != nil {
			return err
		}
	}
	cli := s.Events.Insert(calId, e)
	_, err = cli.Do()
	return err
}

// BuildReservationICS renders a single-event calendar invite for a seat
// reservation, suitable for attaching to a notification email.
func BuildReservationICS(uid, summary, location string, start, end time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	event := cal.AddEvent(uid)
	event.SetCreatedTime(time.Now())
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(summary)
	event.SetLocation(location)
	return cal.Serialize()
}
