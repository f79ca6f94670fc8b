package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/copydeck/pkg/core"
)

// SlotExt is the file extension of every slot.
const SlotExt = ".json"

// ErrInvalidKey is returned for keys that cannot name a slot file.
var ErrInvalidKey = errors.New("invalid slot key")

// Repository implements core.Repository on a directory: slot "k" lives in
// the file "<Path>/k.json" and is replaced atomically on every write.
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	writes        int
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool // fail Initialize instead of creating Path
	ReadOnly  bool // refuse writes with core.ErrReadOnly
	Perm      os.FileMode
	Logger    *slog.Logger
	// ErrorHandler receives watcher failures that would otherwise only be logged.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Perm == 0 {
		config.Perm = 0600
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		config: config,
	}
}

// Initialize makes sure the slot directory exists.
func (r *Repository) Initialize(ctx context.Context) error {
	info, err := os.Stat(r.Path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", r.Path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat storage path: %w", err)
	}

	if r.config.MustExist {
		return fmt.Errorf("storage path does not exist: %s", r.Path)
	}
	if r.config.ReadOnly {
		// Nothing to read yet; every Get will report core.ErrNotFound.
		return nil
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	r.config.Logger.Debug("storage directory created", "path", r.Path)
	return nil
}

// Get reads the slot stored under key.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := r.slotPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the slot stored under key.
func (r *Repository) Put(ctx context.Context, key string, data []byte) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := r.slotPath(key)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data, r.config.Perm); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}

	r.mu.Lock()
	now := time.Now()
	r.lastWrite = &now
	r.writes++
	r.mu.Unlock()

	r.config.Logger.Debug("slot written", "key", key, "path", path, "bytes", len(data))
	return nil
}

func (r *Repository) slotPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(r.Path, key+SlotExt), nil
}

// keyOf maps a file name back to its slot key. Temp files and foreign files
// yield false.
func keyOf(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, TempFilePrefix) || !strings.HasSuffix(base, SlotExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, SlotExt)
	if key == "" {
		return "", false
	}
	return key, true
}

var _ core.Repository = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
