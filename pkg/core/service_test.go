package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/copydeck/pkg/core"
)

// MockRepository implements core.Repository in memory.
// It deliberately does NOT implement core.Watchable to test fallback/errors.
type MockRepository struct {
	slots   map[string][]byte
	puts    []string
	failPut error
	failKey string // when set, failPut only applies to this slot
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		slots: make(map[string][]byte),
	}
}

func (m *MockRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.slots[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return data, nil
}

func (m *MockRepository) Put(ctx context.Context, key string, data []byte) error {
	if m.failPut != nil && (m.failKey == "" || m.failKey == key) {
		return m.failPut
	}
	m.puts = append(m.puts, key)
	m.slots[key] = append([]byte(nil), data...)
	return nil
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func newLoadedService(t *testing.T, repo *MockRepository) *core.Service {
	t.Helper()
	svc := core.NewService(repo, core.ServiceConfig{NewID: seqIDs()})
	if err := svc.Load(context.TODO()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return svc
}

func TestService_LoadDefaults(t *testing.T) {
	repo := NewMockRepository()
	svc := newLoadedService(t, repo)

	if got := svc.Store().Len(); got != 3 {
		t.Fatalf("expected 3 default decks, got %d", got)
	}
	if svc.Active() != "Welcome/Read Me" {
		t.Errorf("expected first default deck active, got %q", svc.Active())
	}
	if len(repo.puts) != 0 {
		t.Errorf("Load must not write, wrote %v", repo.puts)
	}

	name, err := svc.AddDeck(context.TODO())
	if err != nil {
		t.Fatalf("AddDeck failed: %v", err)
	}
	if name != "New Deck 4" {
		t.Errorf("expected 'New Deck 4', got %q", name)
	}
	if svc.Active() != name {
		t.Errorf("expected new deck to be active, got %q", svc.Active())
	}
}

func TestService_LoadPersisted(t *testing.T) {
	repo := NewMockRepository()
	repo.slots[core.DefaultStorageKey] = []byte(`{"A":{"id":"1","name":"A","rows":[]},"B":{"id":"2","name":"B","rows":[]}}`)
	repo.slots[core.DefaultStorageKey+"-active"] = []byte(`"B"`)

	svc := newLoadedService(t, repo)
	if svc.Active() != "B" {
		t.Errorf("expected persisted active deck 'B', got %q", svc.Active())
	}

	repo.slots[core.DefaultStorageKey+"-active"] = []byte(`"Gone"`)
	svc = newLoadedService(t, repo)
	if svc.Active() != "A" {
		t.Errorf("expected fallback to first deck, got %q", svc.Active())
	}
}

func TestService_LoadCorrupt(t *testing.T) {
	t.Run("Lenient Falls Back To Defaults", func(t *testing.T) {
		repo := NewMockRepository()
		repo.slots[core.DefaultStorageKey] = []byte(`{broken`)

		svc := newLoadedService(t, repo)
		if svc.Store().Len() != 3 {
			t.Errorf("expected default store, got %v", svc.Store().Names())
		}
		if string(repo.slots[core.DefaultStorageKey+"-corrupt"]) != "{broken" {
			t.Errorf("expected corrupt blob to be backed up")
		}
	})

	t.Run("Strict Surfaces The Error", func(t *testing.T) {
		repo := NewMockRepository()
		repo.slots[core.DefaultStorageKey] = []byte(`[1,2]`)

		svc := core.NewService(repo, core.ServiceConfig{StrictLoad: true})
		err := svc.Load(context.TODO())
		if !errors.Is(err, core.ErrCorruptStore) {
			t.Fatalf("expected ErrCorruptStore, got %v", err)
		}
	})
}

func TestService_AddCardWithoutActiveDeck(t *testing.T) {
	repo := NewMockRepository()
	repo.slots[core.DefaultStorageKey] = []byte(`{}`)
	svc := newLoadedService(t, repo)
	ctx := context.TODO()

	if svc.Active() != "" {
		t.Fatalf("expected empty active deck, got %q", svc.Active())
	}

	deck, err := svc.AddCard(ctx)
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}
	if deck != "General" || svc.Active() != "General" {
		t.Errorf("expected 'General' to be created and active, got %q / %q", deck, svc.Active())
	}

	want := `{"General":{"id":"id-3","name":"General","rows":[{"id":"id-1","columns":[{"id":"id-2","label":"New Label","content":""}]}]}}`
	if got := string(repo.slots[core.DefaultStorageKey]); got != want {
		t.Errorf("persisted store mismatch:\n got %s\nwant %s", got, want)
	}
	if got := string(repo.slots[core.DefaultStorageKey+"-active"]); got != `"General"` {
		t.Errorf("expected active deck persisted, got %s", got)
	}
}

func TestService_ExportMatchesPersisted(t *testing.T) {
	repo := NewMockRepository()
	svc := newLoadedService(t, repo)
	ctx := context.TODO()

	if _, err := svc.AddCard(ctx); err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}
	exported, err := svc.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if string(exported) != string(repo.slots[core.DefaultStorageKey]) {
		t.Errorf("export differs from persisted blob")
	}
}

func TestService_DeckLifecycle(t *testing.T) {
	repo := NewMockRepository()
	repo.slots[core.DefaultStorageKey] = []byte(`{"Old":{"id":"1","name":"Old","rows":[]},"Other":{"id":"2","name":"Other","rows":[]}}`)
	svc := newLoadedService(t, repo)
	ctx := context.TODO()

	// 1. Rename follows the active deck
	if err := svc.RenameDeck(ctx, "Old", "New"); err != nil {
		t.Fatalf("RenameDeck failed: %v", err)
	}
	if svc.Active() != "New" {
		t.Errorf("expected active 'New', got %q", svc.Active())
	}
	if names := svc.Store().Names(); names[0] != "New" || names[1] != "Other" {
		t.Errorf("unexpected order %v", names)
	}

	// 2. Rename of a non-active deck keeps the selection
	if err := svc.RenameDeck(ctx, "Other", "Second"); err != nil {
		t.Fatalf("RenameDeck failed: %v", err)
	}
	if svc.Active() != "New" {
		t.Errorf("expected active 'New', got %q", svc.Active())
	}

	// 3. Select
	if err := svc.Select(ctx, "Second"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := svc.Select(ctx, "Nope"); !errors.Is(err, core.ErrDeckNotFound) {
		t.Errorf("expected ErrDeckNotFound, got %v", err)
	}

	// 4. Deleting the active deck selects the first remaining one
	if err := svc.DeleteDeck(ctx, "Second"); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}
	if svc.Active() != "New" {
		t.Errorf("expected active 'New', got %q", svc.Active())
	}

	// 5. Deleting the last deck empties the selection
	if err := svc.DeleteDeck(ctx, "New"); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}
	if svc.Active() != "" {
		t.Errorf("expected empty active deck, got %q", svc.Active())
	}
	if got := string(repo.slots[core.DefaultStorageKey]); got != "{}" {
		t.Errorf("expected empty store persisted, got %s", got)
	}

	// 6. UpdateCard without an active deck changes nothing
	before := len(repo.puts)
	if err := svc.UpdateCard(ctx, "fake-row", "fake-col", "test", "test"); err != nil {
		t.Fatalf("UpdateCard failed: %v", err)
	}
	if len(repo.puts) != before {
		t.Errorf("UpdateCard without active deck must not write")
	}
}

func TestService_CardsAndDrag(t *testing.T) {
	repo := NewMockRepository()
	repo.slots[core.DefaultStorageKey] = []byte(`{"General":{"id":"d1","name":"General","rows":[{"id":"row-1","columns":[{"id":"c1","label":"Orig","content":""}]},{"id":"row-2","columns":[]}]}}`)
	svc := newLoadedService(t, repo)
	ctx := context.TODO()

	if err := svc.UpdateCard(ctx, "row-1", "c1", "Updated", "text"); err != nil {
		t.Fatalf("UpdateCard failed: %v", err)
	}
	deck, _ := svc.Store().Deck("General")
	if deck.Rows[0].Columns[0].Label != "Updated" {
		t.Errorf("label not updated: %+v", deck.Rows[0])
	}

	moved, err := svc.ApplyDrag(ctx, core.DragResult{
		Source:      core.Location{Index: 0, ListID: core.ListCards},
		Destination: &core.Location{Index: 1, ListID: core.ListCards},
	})
	if err != nil || !moved {
		t.Fatalf("ApplyDrag failed: moved=%v err=%v", moved, err)
	}
	deck, _ = svc.Store().Deck("General")
	if deck.Rows[0].ID != "row-2" || deck.Rows[1].ID != "row-1" {
		t.Errorf("unexpected row order: %s, %s", deck.Rows[0].ID, deck.Rows[1].ID)
	}

	before := len(repo.puts)
	moved, err = svc.ApplyDrag(ctx, core.DragResult{Source: core.Location{Index: 0, ListID: core.ListDecks}})
	if err != nil || moved {
		t.Errorf("cancelled drag must be a no-op: moved=%v err=%v", moved, err)
	}
	if len(repo.puts) != before {
		t.Errorf("cancelled drag must not write")
	}

	if err := svc.DeleteCard(ctx, "row-1"); err != nil {
		t.Fatalf("DeleteCard failed: %v", err)
	}
	deck, _ = svc.Store().Deck("General")
	if len(deck.Rows) != 1 {
		t.Errorf("expected 1 row left, got %d", len(deck.Rows))
	}

	if err := svc.ReorderCards(ctx, 0, 0); err != nil {
		t.Fatalf("ReorderCards failed: %v", err)
	}
}

func TestService_Import(t *testing.T) {
	repo := NewMockRepository()
	svc := newLoadedService(t, repo)
	ctx := context.TODO()

	for _, bad := range []string{"123", "{invalid"} {
		err := svc.Import(ctx, []byte(bad))
		var ie *core.ImportError
		if !errors.As(err, &ie) {
			t.Errorf("expected ImportError for %q, got %v", bad, err)
		}
		if svc.Store().Len() != 3 {
			t.Errorf("store must be unchanged after failed import")
		}
	}
	if len(repo.puts) != 0 {
		t.Errorf("failed imports must not write, wrote %v", repo.puts)
	}

	if err := svc.Import(ctx, []byte(`{"TestDeck":{"id":"1","name":"TestDeck","rows":[]}}`)); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if svc.Active() != "TestDeck" {
		t.Errorf("expected 'TestDeck' active, got %q", svc.Active())
	}

	if err := svc.Import(ctx, []byte(`{}`)); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if svc.Active() != "" || svc.Store().Len() != 0 {
		t.Errorf("expected empty store and selection, got %q / %d", svc.Active(), svc.Store().Len())
	}
}

func TestService_PutFailure(t *testing.T) {
	repo := NewMockRepository()
	svc := newLoadedService(t, repo)
	before, _ := svc.Export()
	repo.failPut = core.ErrReadOnly

	_, err := svc.AddDeck(context.TODO())
	if !errors.Is(err, core.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if got := svc.Store().Len(); got != 3 {
		t.Errorf("failed write must not change the store, got %d decks", got)
	}
	if svc.Active() != "Welcome/Read Me" {
		t.Errorf("failed write must not change the selection, got %q", svc.Active())
	}
	after, _ := svc.Export()
	if string(after) != string(before) {
		t.Errorf("store changed after failed write:\n%s\n%s", before, after)
	}

	// Once the storage recovers the same operation goes through.
	repo.failPut = nil
	name, err := svc.AddDeck(context.TODO())
	if err != nil {
		t.Fatalf("AddDeck failed: %v", err)
	}
	if name != "New Deck 4" || svc.Active() != name {
		t.Errorf("expected 'New Deck 4' active, got %q / %q", name, svc.Active())
	}
}

func TestService_SelectionPutFailure(t *testing.T) {
	repo := NewMockRepository()
	svc := newLoadedService(t, repo)
	repo.failPut = core.ErrReadOnly
	repo.failKey = core.DefaultStorageKey + "-active"

	if err := svc.Select(context.TODO(), "Resume"); !errors.Is(err, core.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if svc.Active() != "Welcome/Read Me" {
		t.Errorf("selection must stay put, got %q", svc.Active())
	}

	// The store itself is saved; only the selection is left behind.
	name, err := svc.AddDeck(context.TODO())
	if !errors.Is(err, core.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if !svc.Store().Has(name) {
		t.Errorf("expected %q in store after its blob was written", name)
	}
	if _, ok := repo.slots[core.DefaultStorageKey]; !ok {
		t.Error("expected store blob to be written")
	}
	if svc.Active() != "Welcome/Read Me" {
		t.Errorf("selection must stay put, got %q", svc.Active())
	}
}

func TestService_ReloadSelection(t *testing.T) {
	repo := NewMockRepository()
	svc := newLoadedService(t, repo)
	if _, err := svc.AddDeck(context.TODO()); err != nil {
		t.Fatalf("AddDeck failed: %v", err)
	}
	puts := len(repo.puts)

	// Another writer selects a deck without touching the store blob.
	repo.slots[core.DefaultStorageKey+"-active"] = []byte(`"Resume"`)
	if err := svc.Reload(context.TODO()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if svc.Active() != "Resume" {
		t.Errorf("expected 'Resume' active after reload, got %q", svc.Active())
	}
	if got := svc.Store().Len(); got != 4 {
		t.Errorf("expected 4 decks, got %d", got)
	}

	// A selection naming an unknown deck is ignored.
	repo.slots[core.DefaultStorageKey+"-active"] = []byte(`"Gone"`)
	if err := svc.Reload(context.TODO()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if svc.Active() != "Resume" {
		t.Errorf("expected 'Resume' to stay active, got %q", svc.Active())
	}
	if len(repo.puts) != puts {
		t.Errorf("Reload must not write, wrote %v", repo.puts[puts:])
	}
}

func TestService_Watch_Unsupported(t *testing.T) {
	repo := NewMockRepository()
	svc := newLoadedService(t, repo)

	_, err := svc.Watch(context.TODO())
	if err == nil {
		t.Fatal("expected error for non-watchable repo")
	}
	if err.Error() != "repository does not support watching" {
		t.Errorf("unexpected error msg: %v", err)
	}
}

func TestService_State(t *testing.T) {
	repo := NewMockRepository()
	svc := newLoadedService(t, repo)

	state, ok := svc.State().(core.ServiceState)
	if !ok {
		t.Fatalf("unexpected state type %T", svc.State())
	}
	if state.DeckCount != 3 || state.CardCount != 12 || !state.Loaded {
		t.Errorf("unexpected state %+v", state)
	}
	if state.RepositoryType != "repository" {
		t.Errorf("expected generic repository type, got %q", state.RepositoryType)
	}
	if svc.ComponentType() != "service" {
		t.Errorf("unexpected component type %q", svc.ComponentType())
	}
}
