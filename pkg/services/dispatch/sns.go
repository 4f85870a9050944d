package dispatch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS caps subjects at 100 characters; longer subjects are rejected
// outright rather than truncated by the service.
const maxSubjectLen = 100

// SNSAPI is the slice of the SNS client the publisher needs.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher publishes notifications to a single fan-out topic.
type SNSPublisher struct {
	client   SNSAPI
	topicARN string
}

func NewSNSPublisher(client SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{
		client:   client,
		topicARN: topicARN,
	}
}

func (p *SNSPublisher) Publish(ctx context.Context, subject, body string) error {
	if len(subject) > maxSubjectLen {
		subject = subject[:maxSubjectLen]
	}

	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topicARN, err)
	}

	return nil
}
