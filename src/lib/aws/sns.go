package aws

import (
	"context"
	"log"

	"crbs/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublishSMS sends a transactional SMS straight to a phone number. This is
// the SMS leg of booking notifications.
func SNSPublishSMS(phoneNumber, message string) error {
	client := lib.AWSGetSNSClient()
	if client == nil {
		log.Println("[SNS] client unavailable; SMS not sent")
		return nil
	}
	out, err := client.Publish(context.TODO(), &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(message),
	})
	if err != nil {
		log.Printf("Error publishing SMS: %s\n", err.Error())
		return err
	}
	log.Printf("Published SMS with id: %s\n", *out.MessageId)
	return nil
}

// SNSPublishTopic fans a payload out to a topic, used for operational events
// (overdue sweep results) that other systems subscribe to.
func SNSPublishTopic(topic, payload string) error {
	client := lib.AWSGetSNSClient()
	if client == nil {
		return nil
	}
	topicArn := lib.GetTopicArn(topic)
	_, err := client.Publish(context.TODO(), &sns.PublishInput{
		TopicArn: aws.String(topicArn),
		Message:  aws.String(payload),
	})
	if err != nil {
		log.Printf("Error publishing to topic [%s]: %s\n", topic, err.Error())
		return err
	}
	return nil
}
