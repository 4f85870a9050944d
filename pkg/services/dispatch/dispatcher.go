package dispatch

import (
	"context"
	"fmt"

	"github.com/de-tools/threat-notify/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Publisher is the injected capability for the external fan-out channel.
// The channel client is managed outside the pipeline and must be safe for
// concurrent reuse when the runtime keeps the process warm.
type Publisher interface {
	Publish(ctx context.Context, subject, body string) error
}

type Dispatcher struct {
	publisher Publisher
}

func NewDispatcher(publisher Publisher) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

// Dispatch makes exactly one publish attempt. There is no retry loop here:
// the event source redelivers on a failure outcome, and each redelivery
// runs the whole pipeline again. Failure is returned as a value so the
// entrypoint can pick the invocation outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, msg domain.NotificationMessage) domain.DispatchResult {
	logger := zerolog.Ctx(ctx)

	if err := d.publisher.Publish(ctx, msg.Subject, msg.Body); err != nil {
		logger.Error().
			Err(err).
			Str("subject", msg.Subject).
			Msg("publish attempt failed")
		return domain.DispatchResult{
			Delivered:   false,
			ErrorDetail: fmt.Sprintf("channel unavailable: %v", err),
		}
	}

	logger.Info().
		Str("subject", msg.Subject).
		Msg("notification dispatched")
	return domain.DispatchResult{Delivered: true}
}
