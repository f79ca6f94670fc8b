package platform

import (
	"log/slog"
	"os"

	"github.com/aretw0/copydeck/pkg/core"
)

// options holds the internal configuration for the copydeck service.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	storageKey   string
	newID        core.IDGenerator
	strictLoad   bool
	readOnly     bool
	mustExist    bool
	perm         os.FileMode
	errorHandler func(error)
}

// Option defines a functional option for configuring copydeck.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		storageKey: core.DefaultStorageKey,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the service and the storage adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the filesystem adapter is skipped and the path is ignored.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithStorageKey overrides the slot the store is persisted under.
func WithStorageKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.storageKey = key
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new decks, rows and cards.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(o *options) {
		o.newID = gen
	}
}

// WithStrictLoad makes New fail on a corrupt stored blob instead of
// falling back to the example dataset.
func WithStrictLoad(strict bool) Option {
	return func(o *options) {
		o.strictLoad = strict
	}
}

// WithReadOnly enables read-only mode.
// Mutations still apply in memory but persisting them returns core.ErrReadOnly,
// and the data directory is never created.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithFileMode sets the permissions of slot files. Defaults to 0600.
func WithFileMode(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// watch loop (e.g. permission denied), which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
