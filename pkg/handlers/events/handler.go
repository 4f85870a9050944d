package events

import (
	"context"
	"encoding/json"
	"net/http"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/de-tools/threat-notify/pkg/models/api"
	"github.com/de-tools/threat-notify/pkg/models/domain"
)

// Invoker runs the finding pipeline for one event envelope.
type Invoker interface {
	Handle(ctx context.Context, event lambdaevents.CloudWatchEvent) (domain.InvocationOutcome, error)
}

type Handler struct {
	invoker Invoker
}

func NewHandler(invoker Invoker) *Handler {
	return &Handler{invoker: invoker}
}

// Ingest accepts an EventBridge-shaped envelope as JSON and answers with
// the invocation outcome, mirroring the Lambda contract.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var event lambdaevents.CloudWatchEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to decode event envelope")
		writeOutcome(w, logger, domain.InvocationOutcome{
			StatusCode: http.StatusBadRequest,
			Detail:     "invalid event envelope",
		})
		return
	}

	outcome, _ := h.invoker.Handle(ctx, event)
	writeOutcome(w, logger, outcome)
}

func writeOutcome(w http.ResponseWriter, logger *zerolog.Logger, outcome domain.InvocationOutcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(outcome.StatusCode)

	err := json.NewEncoder(w).Encode(api.MapInvocationOutcome(outcome))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode invocation outcome")
	}
}
