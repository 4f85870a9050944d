package enrich

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/de-tools/threat-notify/pkg/models/domain"
	"github.com/rs/zerolog"
)

// InstanceDescriber is the slice of the EC2 client the enricher needs.
type InstanceDescriber interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
}

// Enricher resolves the Name tag of the instance a finding points at, so
// operators see "i-0abc (payments-api)" instead of a bare instance id.
type Enricher struct {
	client InstanceDescriber
}

func NewEnricher(client InstanceDescriber) *Enricher {
	return &Enricher{client: client}
}

// Enrich is best-effort: a failed or empty lookup returns the finding
// unchanged and never fails the invocation.
func (e *Enricher) Enrich(ctx context.Context, f domain.Finding) domain.Finding {
	if !strings.HasPrefix(f.ResourceID, "i-") {
		return f
	}

	logger := zerolog.Ctx(ctx)
	out, err := e.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{f.ResourceID},
	})
	if err != nil {
		logger.Warn().
			Err(err).
			Str("instance_id", f.ResourceID).
			Msg("instance lookup failed, keeping bare resource id")
		return f
	}

	for _, reservation := range out.Reservations {
		for _, instance := range reservation.Instances {
			for _, tag := range instance.Tags {
				if tag.Key != nil && *tag.Key == "Name" && tag.Value != nil {
					f.ResourceName = *tag.Value
					return f
				}
			}
		}
	}

	return f
}
