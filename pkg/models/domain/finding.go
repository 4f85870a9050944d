package domain

// PlaceholderValue substitutes optional finding fields the event source
// did not populate. Partial information must not block a notification.
const PlaceholderValue = "unknown"

// Finding is the validated internal form of a threat-detection event.
// Constructed once per invocation, immutable afterwards.
type Finding struct {
	Severity     float64
	Type         string
	Description  string
	ResourceID   string
	ResourceName string // resolved by enrichment, empty otherwise
	AccountID    string
	Region       string
	Timestamp    string // ISO-8601, as delivered by the event envelope
}

// NotificationMessage is the rendered alert, derived deterministically
// from a Finding and discarded after dispatch.
type NotificationMessage struct {
	Subject string
	Body    string
}

// DispatchResult reports the outcome of a single publish attempt.
// Failure is a value, never an error crossing the dispatcher boundary.
type DispatchResult struct {
	Delivered   bool
	ErrorDetail string
}

// InvocationOutcome is the entrypoint's answer to the execution
// environment: 200 on success, a non-200 status plus detail otherwise.
type InvocationOutcome struct {
	StatusCode int
	Detail     string
}
