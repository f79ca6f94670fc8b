package core

// List identifiers understood by ApplyDrag.
const (
	ListDecks = "sidebar-decks"
	ListCards = "deck-list"
)

// Location is one end of a drag: a position within a list.
type Location struct {
	Index  int    `json:"index"`
	ListID string `json:"droppableId"`
}

// DragResult is what a drag-and-drop collaborator reports when a drag ends.
// A nil Destination means the drag was cancelled.
type DragResult struct {
	Source      Location  `json:"source"`
	Destination *Location `json:"destination"`
}

// ApplyDrag reorders decks or the active deck's cards according to r.
// Cancelled drags, drops on the starting spot, drops into another list and
// unknown lists leave the store unchanged and report false.
func ApplyDrag(s Store, active string, r DragResult) (Store, bool) {
	dst := r.Destination
	if dst == nil {
		return s, false
	}
	if dst.ListID != r.Source.ListID {
		return s, false
	}
	if dst.Index == r.Source.Index {
		return s, false
	}

	var out Store
	switch r.Source.ListID {
	case ListDecks:
		out = ReorderDecks(s, r.Source.Index, dst.Index)
	case ListCards:
		out = ReorderCards(s, active, r.Source.Index, dst.Index)
	default:
		return s, false
	}
	return out, !sameOrder(s, out, active)
}

// sameOrder reports whether a reorder produced no visible change.
func sameOrder(a, b Store, active string) bool {
	if len(a.names) != len(b.names) {
		return false
	}
	for i := range a.names {
		if a.names[i] != b.names[i] {
			return false
		}
	}
	ra, _ := a.Deck(active)
	rb, _ := b.Deck(active)
	if len(ra.Rows) != len(rb.Rows) {
		return false
	}
	for i := range ra.Rows {
		if ra.Rows[i].ID != rb.Rows[i].ID {
			return false
		}
	}
	return true
}
