package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/de-tools/threat-notify/pkg/models/domain"
	"github.com/de-tools/threat-notify/pkg/services/alert"
	"github.com/de-tools/threat-notify/pkg/services/finding"
)

// Dispatcher publishes a formatted notification and reports the result.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg domain.NotificationMessage) domain.DispatchResult
}

// Enricher augments a finding with resource details. Optional.
type Enricher interface {
	Enrich(ctx context.Context, f domain.Finding) domain.Finding
}

type Dependencies struct {
	Dispatcher Dispatcher
	Enricher   Enricher // nil disables enrichment
}

// Handler sequences Extract -> Format -> Dispatch for one event. It holds
// no state across invocations; the runtime may call Handle concurrently
// for distinct events.
type Handler struct {
	dispatcher  Dispatcher
	enricher    Enricher
	minSeverity float64
}

func NewHandler(deps Dependencies, minSeverity float64) *Handler {
	return &Handler{
		dispatcher:  deps.Dispatcher,
		enricher:    deps.Enricher,
		minSeverity: minSeverity,
	}
}

// Handle translates pipeline outcomes into the execution environment's
// status contract. Failures are values in the outcome, never returned
// errors: partial success (formatted but not delivered) is still failure,
// and the event source's own redelivery acts on the non-200 status.
func (h *Handler) Handle(ctx context.Context, event events.CloudWatchEvent) (domain.InvocationOutcome, error) {
	logger := zerolog.Ctx(ctx)

	f, err := finding.Extract(event)
	if err != nil {
		var malformed *finding.MalformedFindingError
		if errors.As(err, &malformed) {
			logger.Error().
				Str("field", malformed.Field).
				Msg("rejecting malformed finding")
		}
		return domain.InvocationOutcome{
			StatusCode: http.StatusBadRequest,
			Detail:     err.Error(),
		}, nil
	}

	if h.minSeverity > 0 && f.Severity < h.minSeverity {
		logger.Info().
			Float64("severity", f.Severity).
			Float64("threshold", h.minSeverity).
			Msg("finding below severity threshold, skipping")
		return domain.InvocationOutcome{
			StatusCode: http.StatusOK,
			Detail:     fmt.Sprintf("skipped: severity %.1f below threshold", f.Severity),
		}, nil
	}

	if h.enricher != nil {
		f = h.enricher.Enrich(ctx, f)
	}

	result := h.dispatcher.Dispatch(ctx, alert.Format(f))
	if !result.Delivered {
		return domain.InvocationOutcome{
			StatusCode: http.StatusBadGateway,
			Detail:     result.ErrorDetail,
		}, nil
	}

	return domain.InvocationOutcome{StatusCode: http.StatusOK}, nil
}
