package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog"

	"github.com/de-tools/threat-notify/pkg/handler"
	"github.com/de-tools/threat-notify/pkg/models/api"
	"github.com/de-tools/threat-notify/pkg/services/config"
	"github.com/de-tools/threat-notify/pkg/services/dispatch"
	"github.com/de-tools/threat-notify/pkg/services/enrich"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	h, err := buildHandler(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lambda.Start(func(ctx context.Context, event events.CloudWatchEvent) (api.InvocationOutcome, error) {
		outcome, err := h.Handle(logger.WithContext(ctx), event)
		return api.MapInvocationOutcome(outcome), err
	})
}

func buildHandler(ctx context.Context) (*handler.Handler, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	awsCfg, err := config.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	deps := handler.Dependencies{
		Dispatcher: dispatch.NewDispatcher(
			dispatch.NewSNSPublisher(sns.NewFromConfig(*awsCfg), settings.TopicARN),
		),
	}
	if settings.EnrichResources {
		deps.Enricher = enrich.NewEnricher(ec2.NewFromConfig(*awsCfg))
	}

	return handler.NewHandler(deps, settings.MinSeverity), nil
}
