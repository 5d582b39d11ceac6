package common

import (
	"log"
	"os"
	"srs/src/lib"
	awslib "srs/src/lib/aws"
	"srs/src/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesTypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/tidwall/gjson"
)

// EmailQueueHandler delivers one queued mailer message. Local environments
// go straight to SMTP, everything else through SES.
func EmailQueueHandler(payload string) {
	to := []string{}
	for _, v := range gjson.Get(payload, "to").Array() {
		to = append(to, v.String())
	}
	if len(to) == 0 {
		log.Printf("Discarding email message with no recipients: %s\n", payload)
		return
	}
	subject := gjson.Get(payload, "subject").String()
	body := gjson.Get(payload, "body").String()
	html := gjson.Get(payload, "html").Bool()
	from := gjson.Get(payload, "from").String()

	if utils.IsLocal() {
		input := lib.SendMailInput{
			From:     from,
			FromName: gjson.Get(payload, "from-name").String(),
			To:       to,
			Subject:  subject,
			Body:     body,
			Html:     html,
			ICS:      gjson.Get(payload, "ics").String(),
		}
		if err := lib.SendMail(&input); err != nil {
			log.Printf("Could not deliver email [%s]: %s\n", subject, err.Error())
		}
		return
	}

	// SendEmail cannot carry attachments, so invites go out as raw MIME
	if ics := gjson.Get(payload, "ics").String(); ics != "" {
		raw, err := lib.RenderMail(&lib.SendMailInput{
			From:     from,
			FromName: gjson.Get(payload, "from-name").String(),
			To:       to,
			Subject:  subject,
			Body:     body,
			Html:     html,
			ICS:      ics,
		})
		if err != nil {
			log.Printf("Could not build raw email [%s]: %s\n", subject, err.Error())
			return
		}
		awslib.SESSendRawMessage(raw)
		return
	}

	content := &sesTypes.Body{}
	if html {
		content.Html = &sesTypes.Content{Data: aws.String(body)}
	} else {
		content.Text = &sesTypes.Content{Data: aws.String(body)}
	}
	message := &sesTypes.Message{
		Subject: &sesTypes.Content{Data: aws.String(subject)},
		Body:    content,
	}
	destination := &sesTypes.Destination{ToAddresses: to}
	awslib.SESSendMessage(aws.String(from), destination, message)
}

// StartEmailConsumer attaches EmailQueueHandler to the environment's email
// queue.
func StartEmailConsumer() {
	queue := utils.WithSuffix(os.Getenv("EMAIL_QUEUE"))
	if utils.IsLocal() {
		lib.KafkaConsumeTopic("emails", queue, EmailQueueHandler)
		return
	}
	consumer := awslib.NewSQSConsumer(queue, EmailQueueHandler)
	consumer.Listen()
}
