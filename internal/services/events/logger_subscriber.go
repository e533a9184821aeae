package events

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/interfaces"
	"github.com/ternarybob/ragkit/internal/models"
)

// NewLoggerSubscriber creates an event handler that logs tool activity and memory writes
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		switch payload := event.Payload.(type) {
		case models.StartActivityEvent:
			logger.Debug().
				Str("event_type", string(event.Type)).
				Str("tool", payload.ToolName).
				Str("activity", payload.ActivityName).
				Msg("Activity started")

		case models.FinishActivityEvent:
			logEvent := logger.Debug().
				Str("event_type", string(event.Type)).
				Str("tool", payload.ToolName).
				Str("activity", payload.ActivityName).
				Dur("duration", payload.Duration)
			if payload.Output != nil {
				logEvent = logEvent.Str("output_type", string(payload.Output.Type()))
			}
			if payload.Err != nil {
				logEvent = logEvent.Err(payload.Err)
			}
			logEvent.Msg("Activity finished")

		case models.ArtifactsStoredEvent:
			logger.Debug().
				Str("event_type", string(event.Type)).
				Str("memory", payload.MemoryName).
				Str("namespace", payload.Namespace).
				Int("count", payload.Count).
				Msg("Artifacts stored")

		default:
			logger.Debug().
				Str("event_type", string(event.Type)).
				Msg("Event published")
		}

		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	for _, eventType := range interfaces.AllEventTypes {
		if err := eventService.Subscribe(eventType, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe logger to event type %s: %w", eventType, err)
		}
	}

	logger.Debug().
		Int("event_type_count", len(interfaces.AllEventTypes)).
		Msg("Logger subscribed to all event types")

	return nil
}
