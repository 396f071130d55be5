package common

import (
	"log"
	"os"

	"crbs/src/lib"
	awslib "crbs/src/lib/aws"
	"crbs/src/utils"

	"github.com/tidwall/gjson"
)

func emailQueueName() string {
	if q := os.Getenv("EMAIL_QUEUE"); q != "" {
		return q
	}
	return "BookingEmails"
}

// EmailQueueConsumer drains the booking email queue and delivers through
// SMTP. Failed sends are logged against the notification record; delivery is
// best effort and never blocks a booking transition.
func EmailQueueConsumer() {
	qname := utils.WithSuffix(emailQueueName())
	c := awslib.NewSQSConsumer(qname, func(body string) {
		if !gjson.Valid(body) {
			log.Printf("[%s]: Received invalid json body. Aborting", qname)
			return
		}
		to := gjson.Get(body, "to").Array()
		recipients := make([]string, 0, len(to))
		for _, r := range to {
			recipients = append(recipients, r.String())
		}
		input := &lib.SendMailInput{
			From:     gjson.Get(body, "from").String(),
			FromName: gjson.Get(body, "from-name").String(),
			To:       recipients,
			ReplyTo:  gjson.Get(body, "reply-to").String(),
			Subject:  gjson.Get(body, "subject").String(),
			Body:     gjson.Get(body, "body").String(),
			Html:     gjson.Get(body, "html").Bool(),
		}
		if err := lib.SendMail(input); err != nil {
			log.Printf("[%s]: Error sending email: %s\n", qname, err.Error())
			return
		}
	})
	c.Listen()
}

func SQSConsumers() {
	go EmailQueueConsumer()
}
