package api

import "github.com/de-tools/threat-notify/pkg/models/domain"

// InvocationOutcome is the wire form of the entrypoint's result, shared by
// the Lambda return value and the HTTP ingest response.
type InvocationOutcome struct {
	StatusCode int    `json:"statusCode"`
	Detail     string `json:"detail,omitempty"`
}

func MapInvocationOutcome(outcome domain.InvocationOutcome) InvocationOutcome {
	return InvocationOutcome{
		StatusCode: outcome.StatusCode,
		Detail:     outcome.Detail,
	}
}
