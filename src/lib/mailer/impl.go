package mailer

import (
	"encoding/json"
	"fmt"
	"os"
	"srs/src/lib"
	"srs/src/types"
	"srs/src/utils"
)

// NewMailerMessage enqueues an email for delivery. Local environments go
// through kafka, everything else through SQS.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	emailBody := &types.JSONB{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
		"ics":       input.ICS,
	}
	if utils.IsLocal() {
		if err := lib.KafkaProduceMessage("emails", utils.WithSuffix(emailQueue), emailBody); err != nil {
			return fmt.Errorf("error sending message to queue: %s", err.Error())
		}
		return nil
	}
	body, err := json.Marshal(&emailBody)
	if err != nil {
		return err
	}
	if err := lib.SQSProduceMessage(utils.WithSuffix(emailQueue), string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}
