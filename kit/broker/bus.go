package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

type Event interface {
	Name() string
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) []error
}

type Handler func(ctx context.Context, evt Event) error

// Bus delivers events synchronously, in subscription order, to every handler
// registered for the event name. A failing or panicking handler never stops
// the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribers returns how many handlers listen for eventName.
func (b *Bus) Subscribers(eventName string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventName])
}

func (b *Bus) Subscribe(eventName string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], h)
}

func (b *Bus) Publish(ctx context.Context, evt Event) []error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[evt.Name()]...)
	b.mu.RUnlock()

	var errs []error
	for i, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Ctx(ctx).Error().Str("layer", "broker").Str("event", evt.Name()).Int("handler_index", i).Interface("panic", r).Msg("handler panic")
					errs = append(errs, fmt.Errorf("broker: handler %d panicked: %v", i, r))
				}
			}()
			if err := h(ctx, evt); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("layer", "broker").Str("event", evt.Name()).Int("handler_index", i).Msg("handler error")
				errs = append(errs, err)
			}
		}()
	}
	return errs
}
