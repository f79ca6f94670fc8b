package lifecycle

import (
	"context"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/copydeck/pkg/core"
)

// SourceOption configures a slot event source.
type SourceOption func(*slotSource)

// WithSettle coalesces bursts: an event is only emitted once no other event
// for the same key has arrived for d. Zero disables coalescing.
func WithSettle(d time.Duration) SourceOption {
	return func(s *slotSource) { s.settle = d }
}

type slotSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	settle time.Duration
}

// NewSource bridges a channel of storage events to lifecycle.Source.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &slotSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *slotSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *slotSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		if s.settle <= 0 {
			return s.forward(ctx)
		}
		return s.coalesce(ctx)
	})
	return nil
}

func (s *slotSource) forward(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-s.events:
			if !ok {
				return nil
			}
			if !s.emit(ctx, e) {
				return nil
			}
		}
	}
}

// coalesce keeps the latest event per key and flushes keys whose last event
// is older than the settle window, in arrival order.
func (s *slotSource) coalesce(ctx context.Context) error {
	pending := make(map[string]core.Event)
	seen := make(map[string]time.Time)
	var order []string

	ticker := time.NewTicker(max(s.settle/2, time.Nanosecond))
	defer ticker.Stop()

	flush := func(all bool) bool {
		now := time.Now()
		kept := order[:0]
		for _, key := range order {
			if !all && now.Sub(seen[key]) < s.settle {
				kept = append(kept, key)
				continue
			}
			e := pending[key]
			delete(pending, key)
			delete(seen, key)
			if !s.emit(ctx, e) {
				return false
			}
		}
		order = kept
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-s.events:
			if !ok {
				flush(true)
				return nil
			}
			if _, exists := pending[e.Key]; !exists {
				order = append(order, e.Key)
			}
			pending[e.Key] = e
			seen[e.Key] = time.Now()
		case <-ticker.C:
			if !flush(false) {
				return nil
			}
		}
	}
}

func (s *slotSource) emit(ctx context.Context, e core.Event) bool {
	select {
	case s.out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}
