package copydeck

import (
	"context"
	"log/slog"
	"os"

	"github.com/aretw0/copydeck/internal/platform"
	"github.com/aretw0/copydeck/pkg/core"
)

// --- Types ---

// Service owns a store of decks and persists every change.
type Service = core.Service

// Store is the ordered mapping of deck names to decks.
type Store = core.Store

type (
	Deck       = core.Deck
	Row        = core.Row
	Card       = core.Card
	DragResult = core.DragResult
	Location   = core.Location
)

// Drag list identifiers.
const (
	ListDecks = core.ListDecks
	ListCards = core.ListCards
)

// --- Configuration ---

// Option defines a functional option for configuring copydeck.
type Option = platform.Option

// Config is the CLI configuration file model.
type Config = platform.Config

// WithLogger sets the logger for the service and the storage adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithStorageKey overrides the slot the store is persisted under.
func WithStorageKey(key string) Option {
	return platform.WithStorageKey(key)
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen core.IDGenerator) Option {
	return platform.WithIDGenerator(gen)
}

// WithStrictLoad fails on a corrupt stored blob instead of using the example dataset.
func WithStrictLoad(strict bool) Option {
	return platform.WithStrictLoad(strict)
}

// WithReadOnly refuses every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithFileMode sets the permissions of slot files.
func WithFileMode(perm os.FileMode) Option {
	return platform.WithFileMode(perm)
}

// WithWatcherErrorHandler registers a callback for watch loop failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// LoadConfig reads the YAML config file and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// --- Factory ---

// New creates a loaded Service backed by the data directory at path.
func New(path string, opts ...Option) (*Service, error) {
	return platform.New(context.Background(), path, opts...)
}

// Open is New with a caller-supplied context.
func Open(ctx context.Context, path string, opts ...Option) (*Service, error) {
	return platform.New(ctx, path, opts...)
}

// Init prepares the storage backend without loading a store.
func Init(ctx context.Context, path string, opts ...Option) (core.Repository, error) {
	return platform.Init(ctx, path, opts...)
}

// --- Utils ---

// FindRoot looks upwards from startDir for a project-local .copydeck directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
