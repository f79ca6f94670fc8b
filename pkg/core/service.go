package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"
)

// DefaultStorageKey is the slot the store is persisted under.
const DefaultStorageKey = "copydeck-data"

// ServiceConfig holds the configuration for a Service.
type ServiceConfig struct {
	Key        string       // storage slot of the store; the active deck goes to Key+"-active"
	Logger     *slog.Logger // nil discards
	NewID      IDGenerator  // nil uses NewID
	StrictLoad bool         // fail Load on a corrupt blob instead of falling back to the defaults
}

// Service owns the current store and the active deck selection.
// Every mutating method applies a pure operation, fixes up the active deck
// and persists the result.
type Service struct {
	mu     sync.RWMutex
	repo   Repository
	cfg    ServiceConfig
	logger *slog.Logger

	store    Store
	active   string
	loaded   bool
	lastBlob []byte
	lastSel  string
}

// NewService creates a new Service. Call Load before using it.
func NewService(repo Repository, cfg ServiceConfig) *Service {
	if cfg.Key == "" {
		cfg.Key = DefaultStorageKey
	}
	if cfg.NewID == nil {
		cfg.NewID = NewID
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, cfg: cfg, logger: logger}
}

func (s *Service) activeKey() string { return s.cfg.Key + "-active" }

// Load reads the persisted store and active deck.
// A missing store yields DefaultStore. A corrupt one is logged, backed up
// under Key+"-corrupt" and replaced by DefaultStore, unless StrictLoad is set.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, blob, err := s.readStore(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorruptStore) || s.cfg.StrictLoad {
			return err
		}
		s.logger.Error("stored data is corrupt, using defaults", "key", s.cfg.Key, "error", err)
		if blob != nil {
			if perr := s.repo.Put(ctx, s.cfg.Key+"-corrupt", blob); perr != nil {
				s.logger.Warn("failed to back up corrupt store", "key", s.cfg.Key, "error", perr)
			}
		}
		st, blob = DefaultStore(), nil
	}

	sel, err := s.readActive(ctx)
	if err != nil {
		s.logger.Warn("ignoring unreadable active deck", "key", s.activeKey(), "error", err)
		sel = ""
	}
	s.lastSel = sel
	if !st.Has(sel) {
		sel = FirstKey(st)
	}

	s.store, s.active, s.lastBlob, s.loaded = st, sel, blob, true
	s.logger.Debug("store loaded", "key", s.cfg.Key, "decks", st.Len(), "active", sel)
	return nil
}

// Reload re-reads storage after an external change. Unlike Load, a corrupt
// blob is reported and the current state is kept. A selection persisted by
// another writer is adopted when it names a deck of the reloaded store.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, blob, err := s.readStore(ctx)
	if err != nil {
		return err
	}
	changed := blob == nil || !bytes.Equal(blob, s.lastBlob)
	if !changed {
		st = s.store
	}

	active := s.active
	if sel, err := s.readActive(ctx); err != nil {
		s.logger.Warn("ignoring unreadable active deck", "key", s.activeKey(), "error", err)
	} else if sel != s.lastSel {
		s.lastSel = sel
		if st.Has(sel) {
			active = sel
		}
	}
	if !st.Has(active) {
		active = FirstKey(st)
	}

	if changed {
		s.store, s.lastBlob = st, blob
		s.logger.Info("store reloaded", "key", s.cfg.Key, "decks", st.Len())
	}
	if active != s.active {
		s.logger.Debug("active deck changed", "from", s.active, "to", active)
		s.active = active
	}
	return nil
}

// readStore returns the decoded store and the raw blob it came from.
// The blob is nil when nothing was stored.
func (s *Service) readStore(ctx context.Context) (Store, []byte, error) {
	raw, err := s.repo.Get(ctx, s.cfg.Key)
	if errors.Is(err, ErrNotFound) {
		return DefaultStore(), nil, nil
	}
	if err != nil {
		return Store{}, nil, fmt.Errorf("failed to read store: %w", err)
	}
	st, err := Decode(raw)
	if err != nil {
		return Store{}, raw, err
	}
	return st, raw, nil
}

func (s *Service) readActive(ctx context.Context) (string, error) {
	raw, err := s.repo.Get(ctx, s.activeKey())
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", err
	}
	return name, nil
}

// Store returns the current store.
func (s *Service) Store() Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Active returns the active deck name, or "" when nothing is selected.
func (s *Service) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Select makes name the active deck.
func (s *Service) Select(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.Has(name) {
		return fmt.Errorf("%w: %q", ErrDeckNotFound, name)
	}
	return s.commit(ctx, s.store, name)
}

// UpdateCard edits a card of the active deck. Unknown ids are ignored.
func (s *Service) UpdateCard(ctx context.Context, rowID, colID, label, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return nil
	}
	return s.commit(ctx, UpdateCard(s.store, s.active, rowID, colID, label, content), s.active)
}

// AddCard adds a blank card to the active deck, creating DefaultDeckName when
// nothing is active. It returns the deck that received the card, which
// becomes active.
func (s *Service) AddCard(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, deck := AddCard(s.store, s.active, s.cfg.NewID)
	return deck, s.commit(ctx, next, deck)
}

// DeleteCard removes a row from the active deck.
func (s *Service) DeleteCard(ctx context.Context, rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, DeleteCard(s.store, s.active, rowID), s.active)
}

// AddDeck creates an empty deck, makes it active and returns its name.
func (s *Service) AddDeck(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, name := AddDeck(s.store, s.cfg.NewID)
	return name, s.commit(ctx, next, name)
}

// RenameDeck renames a deck, following it with the active selection.
func (s *Service) RenameDeck(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := RenameDeck(s.store, oldName, newName)
	active := s.active
	if active == oldName && next.Has(newName) && !next.Has(oldName) {
		active = newName
	}
	if !next.Has(active) {
		active = FirstKey(next)
	}
	return s.commit(ctx, next, active)
}

// DeleteDeck removes a deck. If it was active, the first remaining deck
// becomes active.
func (s *Service) DeleteDeck(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := DeleteDeck(s.store, name)
	active := s.active
	if !next.Has(active) {
		active = FirstKey(next)
	}
	return s.commit(ctx, next, active)
}

// ReorderDecks moves the deck at src to dst.
func (s *Service) ReorderDecks(ctx context.Context, src, dst int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, ReorderDecks(s.store, src, dst), s.active)
}

// ReorderCards moves the active deck's row at src to dst.
func (s *Service) ReorderCards(ctx context.Context, src, dst int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, ReorderCards(s.store, s.active, src, dst), s.active)
}

// ApplyDrag handles the end of a drag. It reports whether anything moved.
func (s *Service) ApplyDrag(ctx context.Context, r DragResult) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed := ApplyDrag(s.store, s.active, r)
	if !changed {
		return false, nil
	}
	return true, s.commit(ctx, next, s.active)
}

// Export serializes the current store, byte for byte as it is persisted.
func (s *Service) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Export(s.store)
}

// Import replaces the whole store with raw and selects its first deck.
// On failure the current store is kept and an *ImportError is returned.
func (s *Service) Import(ctx context.Context, raw []byte) error {
	next, err := Import(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("importing store", "decks", next.Len())
	return s.commit(ctx, next, FirstKey(next))
}

// Watch reloads the store whenever its slots change in storage and forwards
// the events. The channel is closed when ctx is done.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	in, err := w.Watch(ctx, s.cfg.Key+"*")
	if err != nil {
		return nil, err
	}

	out := make(chan Event)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-in:
				if !ok {
					return nil
				}
				if e.Key != s.cfg.Key && e.Key != s.activeKey() {
					continue
				}
				if e.Type != EventDelete {
					if err := s.Reload(ctx); err != nil {
						s.logger.Error("reload failed", "key", e.Key, "error", err)
					}
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return out, nil
}

// commit persists whatever changed and installs next and active once the
// writes succeed. If only the selection fails to save, next is kept (it is
// already on disk) and the previous selection stays active when it still
// exists. Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next Store, active string) error {
	blob, err := Export(next)
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	if !bytes.Equal(blob, s.lastBlob) {
		if err := s.repo.Put(ctx, s.cfg.Key, blob); err != nil {
			return fmt.Errorf("failed to save store: %w", err)
		}
		s.lastBlob = blob
		s.logger.Debug("store saved", "key", s.cfg.Key, "bytes", len(blob))
	}
	s.store = next
	if !next.Has(s.active) {
		s.active = FirstKey(next)
	}

	if active != s.lastSel {
		sel, err := json.Marshal(active)
		if err != nil {
			return fmt.Errorf("failed to serialize active deck: %w", err)
		}
		if err := s.repo.Put(ctx, s.activeKey(), sel); err != nil {
			return fmt.Errorf("failed to save active deck: %w", err)
		}
		s.lastSel = active
	}
	s.active = active
	return nil
}
