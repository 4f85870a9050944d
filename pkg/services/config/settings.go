package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ConfigurationError reports a missing required setting. Raised before any
// extraction or dispatch work happens.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required setting %s", e.Setting)
}

// Settings is the pipeline's whole configuration surface.
type Settings struct {
	// TopicARN identifies the fan-out channel notifications are published to.
	TopicARN string
	// MinSeverity skips findings below the threshold. Zero disables the
	// check; the event-routing rule normally filters upstream, but the
	// HTTP ingest path has no router in front of it.
	MinSeverity float64
	// EnrichResources enables the EC2 Name-tag lookup for affected instances.
	EnrichResources bool
}

// Load reads settings from the environment (TOPIC_ARN, MIN_SEVERITY,
// ENRICH_RESOURCES).
func Load() (*Settings, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("min_severity", 0.0)
	v.SetDefault("enrich_resources", false)

	settings := &Settings{
		TopicARN:        v.GetString("topic_arn"),
		MinSeverity:     v.GetFloat64("min_severity"),
		EnrichResources: v.GetBool("enrich_resources"),
	}

	if settings.TopicARN == "" {
		return nil, &ConfigurationError{Setting: "TOPIC_ARN"}
	}

	return settings, nil
}
