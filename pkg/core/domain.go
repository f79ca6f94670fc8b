// Package core holds the copydeck domain: cards, rows, decks, the ordered
// Store that maps deck names to decks, and the operations that transform it.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Card is the leaf unit of copyable text.
type Card struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Content string `json:"content"`
}

// Row is an ordered unit within a deck. It usually holds a single card,
// but nothing forbids more columns.
type Row struct {
	ID      string `json:"id"`
	Columns []Card `json:"columns"`
}

// MarshalJSON keeps an empty column list as [] instead of null.
func (r Row) MarshalJSON() ([]byte, error) {
	type plain Row
	if r.Columns == nil {
		r.Columns = []Card{}
	}
	return marshalCompact(plain(r))
}

// Deck is a named, ordered collection of rows.
// Name doubles as the deck's key in the Store.
type Deck struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// MarshalJSON keeps an empty row list as [] instead of null.
func (d Deck) MarshalJSON() ([]byte, error) {
	type plain Deck
	if d.Rows == nil {
		d.Rows = []Row{}
	}
	return marshalCompact(plain(d))
}

// Store maps deck names to decks. Key order is significant: it is the
// sidebar order and it survives serialization.
//
// The zero value is an empty store. Store values are treated as immutable;
// every operation in this package returns a new Store.
type Store struct {
	names []string
	decks map[string]Deck
}

// NewStore builds a Store from decks, keyed by their names, in the order given.
// A later deck with a repeated name replaces the earlier one in place.
func NewStore(decks ...Deck) Store {
	var s Store
	for _, d := range decks {
		s = s.with(d.Name, d)
	}
	return s
}

// Len returns the number of decks.
func (s Store) Len() int { return len(s.names) }

// Names returns the deck names in order.
func (s Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Has reports whether name is a key of the store.
func (s Store) Has(name string) bool {
	_, ok := s.decks[name]
	return ok
}

// Deck returns the deck stored under name.
func (s Store) Deck(name string) (Deck, bool) {
	d, ok := s.decks[name]
	return d, ok
}

// Decks returns the decks in key order.
func (s Store) Decks() []Deck {
	out := make([]Deck, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, s.decks[n])
	}
	return out
}

// FirstKey returns the first deck name, or "" for an empty store.
func FirstKey(s Store) string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[0]
}

// clone copies the key slice and the map; deck values are shared.
func (s Store) clone() Store {
	c := Store{
		names: make([]string, len(s.names)),
		decks: make(map[string]Deck, len(s.decks)),
	}
	copy(c.names, s.names)
	for k, v := range s.decks {
		c.decks[k] = v
	}
	return c
}

// with returns a copy holding d under name. An existing key keeps its position.
func (s Store) with(name string, d Deck) Store {
	c := s.clone()
	if _, ok := c.decks[name]; !ok {
		c.names = append(c.names, name)
	}
	c.decks[name] = d
	return c
}

// without returns a copy lacking name.
func (s Store) without(name string) Store {
	if !s.Has(name) {
		return s
	}
	c := s.clone()
	delete(c.decks, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	return c
}

// MarshalJSON writes the store as a JSON object with keys in store order.
func (s Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalCompact(name)
		if err != nil {
			return nil, err
		}
		val, err := marshalCompact(s.decks[name])
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping keys in document order.
// A repeated key keeps its first position and its last value.
func (s *Store) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &shapeError{what: "store", got: describeToken(tok)}
	}

	var out Store
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return &shapeError{what: fmt.Sprintf("deck %q", name), got: describeRaw(trimmed)}
		}

		var d Deck
		if err := json.Unmarshal(raw, &d); err != nil {
			return &shapeError{what: fmt.Sprintf("deck %q", name), got: err.Error()}
		}
		out = out.with(name, d)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// shapeError reports valid JSON of the wrong shape.
type shapeError struct {
	what string
	got  string
}

func (e *shapeError) Error() string {
	return fmt.Sprintf("%s must be a JSON object, got %s", e.what, e.got)
}

func describeToken(tok json.Token) string {
	switch tok.(type) {
	case json.Delim:
		return "array"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", tok)
}

func describeRaw(raw []byte) string {
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}

// marshalCompact encodes v the way JSON.stringify does: compact, and without
// escaping <, > and &.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
