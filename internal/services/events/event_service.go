package events

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/common"
	"github.com/ternarybob/ragkit/internal/interfaces"
)

var (
	ErrNilHandler       = errors.New("event handler is nil")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrServiceClosed    = errors.New("event service is closed")
)

// Service is the in-process event bus shared by tools and task memory.
// Handlers for one event type run in subscription order under PublishSync.
type Service struct {
	mu       sync.RWMutex
	handlers map[interfaces.EventType][]interfaces.EventHandler
	closed   bool
	logger   arbor.ILogger
}

func NewService(logger arbor.ILogger) interfaces.EventService {
	return &Service{
		handlers: make(map[interfaces.EventType][]interfaces.EventHandler),
		logger:   logger,
	}
}

// Subscribe registers handler for one of interfaces.AllEventTypes
func (s *Service) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	if handler == nil {
		return ErrNilHandler
	}
	if !slices.Contains(interfaces.AllEventTypes, eventType) {
		return fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}
	s.handlers[eventType] = append(s.handlers[eventType], handler)

	s.logger.Debug().
		Str("event_type", string(eventType)).
		Int("handlers", len(s.handlers[eventType])).
		Msg("Event handler subscribed")
	return nil
}

// snapshot copies the handler list so publishing never holds the lock
func (s *Service) snapshot(eventType interfaces.EventType) []interfaces.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil
	}
	return slices.Clone(s.handlers[eventType])
}

// Publish fans the event out to its handlers without waiting.
// Handler errors and panics are logged, never returned.
func (s *Service) Publish(ctx context.Context, event interfaces.Event) error {
	handlers := s.snapshot(event.Type)
	if len(handlers) == 0 {
		return nil
	}

	for _, handler := range handlers {
		common.SafeGo(s.logger, "event:"+string(event.Type), func() {
			if err := handler(ctx, event); err != nil {
				s.logger.Warn().
					Err(err).
					Str("event_type", string(event.Type)).
					Msg("Event handler failed")
			}
		})
	}
	return nil
}

// PublishSync runs the handlers one after another and joins their errors
func (s *Service) PublishSync(ctx context.Context, event interfaces.Event) error {
	var errs []error
	for _, handler := range s.snapshot(event.Type) {
		if err := s.runHandler(ctx, handler, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d event handler(s) failed for %s: %w", len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

func (s *Service) runHandler(ctx context.Context, handler interfaces.EventHandler, event interfaces.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
	}()
	return handler(ctx, event)
}

// Close drops every handler. Later publishes are no-ops.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.handlers = nil
	s.logger.Debug().Msg("Event service closed")
	return nil
}
