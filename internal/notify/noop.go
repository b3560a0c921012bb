package notify

import (
	"context"

	"github.com/preston-bernstein/matchday-service/internal/events"
)

// Noop discards every event.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Publish(context.Context, events.Event) error { return nil }
func (n *Noop) Close() error                                { return nil }
