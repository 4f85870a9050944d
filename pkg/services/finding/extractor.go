package finding

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/de-tools/threat-notify/pkg/models/domain"
)

// MalformedFindingError reports a required field missing or carrying the
// wrong type. Only severity is required; every other field degrades to a
// placeholder instead.
type MalformedFindingError struct {
	Field  string
	Reason string
}

func (e *MalformedFindingError) Error() string {
	return fmt.Sprintf("malformed finding: field %q %s", e.Field, e.Reason)
}

// detailPayload mirrors the finding portion of the GuardDuty event detail.
// Field names are the upstream envelope's schema and must not be renamed.
type detailPayload struct {
	Severity    json.RawMessage `json:"severity"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Resource    json.RawMessage `json:"resource"`
}

type resourcePayload struct {
	ResourceType    string `json:"resourceType"`
	InstanceDetails struct {
		InstanceID string `json:"instanceId"`
	} `json:"instanceDetails"`
}

// Extract validates an inbound event envelope and builds the internal
// Finding. It has no side effects and never dispatches anything.
func Extract(event events.CloudWatchEvent) (domain.Finding, error) {
	var detail detailPayload
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return domain.Finding{}, &MalformedFindingError{Field: "detail", Reason: "is not a JSON object"}
	}

	if len(detail.Severity) == 0 {
		return domain.Finding{}, &MalformedFindingError{Field: "detail.severity", Reason: "is missing"}
	}

	var severity float64
	if err := json.Unmarshal(detail.Severity, &severity); err != nil {
		return domain.Finding{}, &MalformedFindingError{Field: "detail.severity", Reason: "is not numeric"}
	}

	return domain.Finding{
		Severity:    severity,
		Type:        orPlaceholder(detail.Type),
		Description: orPlaceholder(detail.Description),
		ResourceID:  resourceID(detail.Resource),
		AccountID:   orPlaceholder(event.AccountID),
		Region:      orPlaceholder(event.Region),
		Timestamp:   eventTime(event.Time),
	}, nil
}

// resourceID prefers the affected instance id and falls back to the
// resource type when the finding targets something else.
func resourceID(raw json.RawMessage) string {
	var resource resourcePayload
	if err := json.Unmarshal(raw, &resource); err != nil {
		return domain.PlaceholderValue
	}
	if resource.InstanceDetails.InstanceID != "" {
		return resource.InstanceDetails.InstanceID
	}
	return orPlaceholder(resource.ResourceType)
}

func eventTime(t time.Time) string {
	if t.IsZero() {
		return domain.PlaceholderValue
	}
	return t.UTC().Format(time.RFC3339)
}

func orPlaceholder(s string) string {
	if s == "" {
		return domain.PlaceholderValue
	}
	return s
}
