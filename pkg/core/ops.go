package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const (
	// DefaultDeckName is the deck AddCard creates when nothing is active.
	DefaultDeckName = "General"
	// NewCardLabel is the label of a freshly added card.
	NewCardLabel = "New Label"
	// NewDeckPrefix is followed by the deck count + 1 when AddDeck names a deck.
	NewDeckPrefix = "New Deck "
)

// IDGenerator returns a fresh, globally unique identifier.
type IDGenerator func() string

// NewID is the default IDGenerator: a random UUID string.
func NewID() string { return uuid.NewString() }

// UpdateCard sets label and content on the column colID of row rowID in the
// active deck. Unknown ids and an empty or missing active deck leave the
// store unchanged.
func UpdateCard(s Store, active, rowID, colID, label, content string) Store {
	if active == "" {
		return s
	}
	deck, ok := s.Deck(active)
	if !ok {
		return s
	}

	ri := indexOfRow(deck.Rows, rowID)
	if ri < 0 {
		return s
	}
	row := deck.Rows[ri]

	ci := -1
	for i, c := range row.Columns {
		if c.ID == colID {
			ci = i
			break
		}
	}
	if ci < 0 {
		return s
	}

	cols := make([]Card, len(row.Columns))
	copy(cols, row.Columns)
	cols[ci].Label = label
	cols[ci].Content = content

	rows := make([]Row, len(deck.Rows))
	copy(rows, deck.Rows)
	rows[ri] = Row{ID: row.ID, Columns: cols}

	deck.Rows = rows
	return s.with(active, deck)
}

// AddCard appends a row with one blank card to the active deck. With no
// active deck it creates DefaultDeckName holding just the new row instead.
// It returns the name of the deck that received the card; the caller should
// make it active.
func AddCard(s Store, active string, newID IDGenerator) (Store, string) {
	if newID == nil {
		newID = NewID
	}
	row := Row{
		ID:      newID(),
		Columns: []Card{{ID: newID(), Label: NewCardLabel, Content: ""}},
	}

	deck, ok := s.Deck(active)
	if active == "" || !ok {
		// A pre-existing deck with the default name is replaced in place.
		return s.with(DefaultDeckName, Deck{
			ID:   newID(),
			Name: DefaultDeckName,
			Rows: []Row{row},
		}), DefaultDeckName
	}

	rows := make([]Row, len(deck.Rows), len(deck.Rows)+1)
	copy(rows, deck.Rows)
	deck.Rows = append(rows, row)
	return s.with(active, deck), active
}

// DeleteCard removes row rowID from the active deck. Confirmation belongs to
// the caller.
func DeleteCard(s Store, active, rowID string) Store {
	if active == "" {
		return s
	}
	deck, ok := s.Deck(active)
	if !ok {
		return s
	}
	ri := indexOfRow(deck.Rows, rowID)
	if ri < 0 {
		return s
	}

	rows := make([]Row, 0, len(deck.Rows)-1)
	rows = append(rows, deck.Rows[:ri]...)
	rows = append(rows, deck.Rows[ri+1:]...)
	deck.Rows = rows
	return s.with(active, deck)
}

// AddDeck appends an empty deck named "New Deck N", N being the current deck
// count plus one, and returns its name. The name is not checked against
// existing keys.
func AddDeck(s Store, newID IDGenerator) (Store, string) {
	if newID == nil {
		newID = NewID
	}
	name := NewDeckPrefix + strconv.Itoa(s.Len()+1)
	return s.with(name, Deck{ID: newID(), Name: name, Rows: []Row{}}), name
}

// RenameDeck moves the deck under oldName to newName, keeping its position.
// An empty newName, newName == oldName or an unknown oldName is a no-op.
// If newName already names another deck, that entry is dropped.
func RenameDeck(s Store, oldName, newName string) Store {
	if newName == "" || newName == oldName {
		return s
	}
	deck, ok := s.Deck(oldName)
	if !ok {
		return s
	}
	deck.Name = newName

	out := Store{decks: make(map[string]Deck, len(s.decks))}
	for _, n := range s.names {
		switch n {
		case oldName:
			out.names = append(out.names, newName)
			out.decks[newName] = deck
		case newName:
			// replaced by the renamed deck
		default:
			out.names = append(out.names, n)
			out.decks[n] = s.decks[n]
		}
	}
	return out
}

// DeleteDeck removes the deck called name. Confirmation belongs to the caller.
func DeleteDeck(s Store, name string) Store {
	return s.without(name)
}

// ReorderDecks moves the key at src to dst.
func ReorderDecks(s Store, src, dst int) Store {
	names, ok := move(s.names, src, dst)
	if !ok {
		return s
	}
	c := s.clone()
	c.names = names
	return c
}

// ReorderCards moves the row at src to dst within the active deck.
func ReorderCards(s Store, active string, src, dst int) Store {
	if active == "" {
		return s
	}
	deck, ok := s.Deck(active)
	if !ok {
		return s
	}
	rows, ok := move(deck.Rows, src, dst)
	if !ok {
		return s
	}
	deck.Rows = rows
	return s.with(active, deck)
}

// Export serializes the store. The bytes are exactly what gets persisted.
func Export(s Store) ([]byte, error) {
	return marshalCompact(s)
}

// Import parses raw as a store. Invalid JSON and JSON that is not an object
// of decks fail with *ImportError.
func Import(raw []byte) (Store, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Store{}, &ImportError{Kind: ImportMalformed, Err: err}
	}

	var s Store
	if err := s.UnmarshalJSON(raw); err != nil {
		var se *shapeError
		if errors.As(err, &se) {
			return Store{}, &ImportError{Kind: ImportWrongShape, Err: err}
		}
		return Store{}, &ImportError{Kind: ImportMalformed, Err: err}
	}
	return s, nil
}

// Decode parses a persisted blob. Unlike Import it reports every failure as
// ErrCorruptStore.
func Decode(raw []byte) (Store, error) {
	s, err := Import(raw)
	if err != nil {
		return Store{}, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	return s, nil
}

func indexOfRow(rows []Row, id string) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// move returns a copy of items with the element at src reinserted at dst.
func move[T any](items []T, src, dst int) ([]T, bool) {
	if src == dst || src < 0 || dst < 0 || src >= len(items) || dst >= len(items) {
		return nil, false
	}
	out := make([]T, 0, len(items))
	out = append(out, items[:src]...)
	out = append(out, items[src+1:]...)

	moved := items[src]
	out = append(out[:dst], append([]T{moved}, out[dst:]...)...)
	return out, true
}
