package alert

import (
	"fmt"
	"strconv"

	"github.com/de-tools/threat-notify/pkg/models/domain"
)

// SeverityLabel buckets a numeric GuardDuty severity into the label shown
// to operators. Buckets stay aligned with the upstream routing threshold
// (findings below 4 are normally filtered before they reach us).
func SeverityLabel(severity float64) string {
	switch {
	case severity >= 9:
		return "Critical"
	case severity >= 7:
		return "High"
	case severity >= 4:
		return "Medium"
	default:
		return "Low"
	}
}

// Format renders a Finding into the outbound notification. It is a pure
// function: equal findings always produce byte-identical messages, so a
// redelivered event dispatches the exact same payload.
func Format(f domain.Finding) domain.NotificationMessage {
	label := SeverityLabel(f.Severity)

	resource := f.ResourceID
	if f.ResourceName != "" {
		resource = fmt.Sprintf("%s (%s)", f.ResourceID, f.ResourceName)
	}

	body := fmt.Sprintf(
		"Severity:    %s (%s)\n"+
			"Type:        %s\n"+
			"Description: %s\n"+
			"Resource:    %s\n"+
			"Account:     %s\n"+
			"Region:      %s\n"+
			"Time:        %s\n",
		formatSeverity(f.Severity), label,
		f.Type,
		f.Description,
		resource,
		f.AccountID,
		f.Region,
		f.Timestamp,
	)

	return domain.NotificationMessage{
		Subject: fmt.Sprintf("GuardDuty %s severity finding in %s", label, f.Region),
		Body:    body,
	}
}

func formatSeverity(severity float64) string {
	return strconv.FormatFloat(severity, 'f', 1, 64)
}
