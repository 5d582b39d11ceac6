package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMailCarriesInvite(t *testing.T) {
	raw, err := RenderMail(&SendMailInput{
		From:     "noreply@example.com",
		FromName: "Seat Reservation System",
		To:       []string{"a@example.com", "b@example.com"},
		Subject:  "Seat Reserved Successfully",
		Body:     "<p>your seat is confirmed</p>",
		Html:     true,
		ICS:      "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n",
	})
	require.NoError(t, err)

	msg := string(raw)
	assert.Contains(t, msg, "noreply@example.com")
	assert.Contains(t, msg, "a@example.com")
	assert.Contains(t, msg, "Subject: Seat Reserved Successfully")
	assert.Contains(t, msg, "multipart/mixed")
	assert.Contains(t, msg, "text/html")
	assert.Contains(t, msg, "text/calendar")
	assert.Contains(t, msg, "invite.ics")
}

func TestRenderMailPlainTextWithoutAttachment(t *testing.T) {
	raw, err := RenderMail(&SendMailInput{
		From:    "noreply@example.com",
		To:      []string{"a@example.com"},
		Subject: "Reminder",
		Body:    "your seat awaits",
	})
	require.NoError(t, err)

	msg := string(raw)
	assert.Contains(t, msg, "text/plain")
	assert.Contains(t, msg, "your seat awaits")
	assert.NotContains(t, msg, "invite.ics")
}
