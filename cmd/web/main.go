package main

import (
	"fmt"
	"net"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/threat-notify/pkg/handler"
	"github.com/de-tools/threat-notify/pkg/server"
	"github.com/de-tools/threat-notify/pkg/services/config"
	"github.com/de-tools/threat-notify/pkg/services/dispatch"
	"github.com/de-tools/threat-notify/pkg/services/enrich"
)

var (
	host string
	port string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the HTTP ingest server for Threat Notify",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVar(&host, "host", "0.0.0.0", "Address to bind the ingest server to")
	rootCmd.Flags().StringVar(&port, "port", "8080", "Port to bind the ingest server to")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	awsCfg, err := config.LoadAWSConfig(ctx)
	if err != nil {
		return err
	}

	deps := handler.Dependencies{
		Dispatcher: dispatch.NewDispatcher(
			dispatch.NewSNSPublisher(sns.NewFromConfig(*awsCfg), settings.TopicARN),
		),
	}
	if settings.EnrichResources {
		deps.Enricher = enrich.NewEnricher(ec2.NewFromConfig(*awsCfg))
	}

	logger.Info().
		Str("topic_arn", settings.TopicARN).
		Float64("min_severity", settings.MinSeverity).
		Bool("enrich_resources", settings.EnrichResources).
		Msg("pipeline configured")

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Invoker: handler.NewHandler(deps, settings.MinSeverity),
		},
	})

	return webAPI.Start()
}
