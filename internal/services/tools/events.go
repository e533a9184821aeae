package tools

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/interfaces"
)

// publishActivity is a no-op without an event service. Publish failures are logged, never returned.
func publishActivity(ctx context.Context, eventService interfaces.EventService, logger arbor.ILogger, event interfaces.Event) {
	if eventService == nil {
		return
	}
	if err := eventService.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("event_type", string(event.Type)).Msg("Failed to publish activity event")
	}
}
