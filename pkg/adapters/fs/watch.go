package fs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/copydeck/pkg/core"
)

// DefaultWatchPattern matches every slot.
const DefaultWatchPattern = "*"

// Watch reports changes to slots whose key matches pattern (doublestar syntax).
// The returned channel is closed once ctx is done or the watcher fails.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = DefaultWatchPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	events := make(chan core.Event)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return r.watchLoop(ctx, watcher, pattern, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.handleWatcherError(fmt.Errorf("watcher stopped: %w", err))
	}))

	return events, nil
}

// watchLoop is the main event loop of the watcher.
func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, events chan<- core.Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if r.config.Logger.Enabled(ctx, slog.LevelDebug) {
				r.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				r.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(events)
	defer r.setWatcherActive(false)
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			e, ok := r.translate(event, pattern)
			if !ok {
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			r.handleWatcherError(wErr)
		}
	}
}

// translate maps a filesystem event to a slot event, filtering by pattern.
func (r *Repository) translate(event fsnotify.Event, pattern string) (core.Event, bool) {
	r.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	key, ok := keyOf(event.Name)
	if !ok {
		return core.Event{}, false
	}
	matched, err := doublestar.Match(pattern, key)
	if err != nil || !matched {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create):
		t = core.EventCreate
	case event.Has(fsnotify.Write):
		t = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{Type: t, Key: key, Timestamp: time.Now().Unix()}, true
}

func (r *Repository) handleWatcherError(err error) {
	r.config.Logger.Error("fsnotify error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}
