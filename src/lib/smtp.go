package lib

import (
	"bytes"
	"log"
	"os"
	"strings"

	"github.com/wneessen/go-mail"
)

func GetSMTPClient() (*mail.Client, error) {
	host := os.Getenv("SMTP_HOST")
	port := 587
	user := os.Getenv("SMTP_USERNAME")
	pass := os.Getenv("SMTP_PASSWORD")
	c, err := mail.NewClient(host, mail.WithPort(port), mail.WithSMTPAuth(mail.SMTPAuthPlain), mail.WithUsername(user), mail.WithPassword(pass))
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return c, nil
}

func BuildMailMessage(inputParams *SendMailInput) *mail.Msg {
	msg := mail.NewMsg()
	if err := msg.FromFormat(inputParams.FromName, inputParams.From); err != nil {
		log.Printf("Failed to set From address: %s\n", err.Error())
	}
	if err := msg.To(inputParams.To...); err != nil {
		log.Printf("Failed to set To address: %s\n", err.Error())
	}
	msg.Subject(inputParams.Subject)
	if inputParams.Html {
		msg.SetBodyString(mail.TypeTextHTML, inputParams.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, inputParams.Body)
	}
	if inputParams.ICS != "" {
		if err := msg.AttachReader("invite.ics", strings.NewReader(inputParams.ICS), mail.WithFileContentType("text/calendar")); err != nil {
			log.Printf("Failed to attach calendar invite: %s\n", err.Error())
		}
	}
	return msg
}

func SendMail(inputParams *SendMailInput) error {
	c, err := GetSMTPClient()
	if err != nil {
		return err
	}
	if err := c.DialAndSend(BuildMailMessage(inputParams)); err != nil {
		return err
	}
	return nil
}

// RenderMail serializes the message to raw MIME bytes, for transports that
// take a prebuilt payload instead of an SMTP session.
func RenderMail(inputParams *SendMailInput) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := BuildMailMessage(inputParams).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type SendMailInput struct {
	From     string
	FromName string
	To       []string
	Subject  string
	Body     string
	Html     bool
	ICS      string
}
