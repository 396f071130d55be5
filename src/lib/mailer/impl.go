package mailer

import (
	"encoding/json"
	"fmt"
	"os"

	"crbs/src/lib"
	awslib "crbs/src/lib/aws"
	"crbs/src/types"
	"crbs/src/utils"
)

// NewMailerMessage enqueues an email for the queue consumer. Local
// environments bypass the queue and deliver over SMTP directly; when the
// provider is ses the message goes straight out through SES.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	if emailQueue == "" {
		emailQueue = "BookingEmails"
	}
	apiEnv := os.Getenv("API_ENV")
	provider := os.Getenv("EMAIL_PROVIDER")
	if apiEnv == "local" {
		return lib.SendMail(input)
	}
	if provider == "ses" {
		awslib.SESSendPlainEmail(input.From, input.To, input.Subject, input.Body)
		return nil
	}
	emailBody := &types.JSONB{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"reply-to":  input.ReplyTo,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
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
