// Package copydeck is the Composition Root for the copydeck organizer.
//
// It connects the deck store and its mutation rules (pkg/core) with the
// storage adapters (pkg/adapters) behind functional options.
//
// A store is an ordered set of named decks. Each deck holds an ordered list
// of rows, and each row holds cards: labelled snippets of text meant to be
// copied. Every mutation produces a new store, which the Service persists as
// one JSON blob under a storage key ("copydeck-data" by default). The same
// bytes are what Export returns and what Import accepts.
//
// Features:
//
//   - **Pure operations**: add, edit, rename, delete and reorder never mutate their input.
//   - **Atomic slots**: the filesystem adapter replaces files via temp file + rename.
//   - **Drag results**: `ApplyDrag` consumes `{source, destination}` drag-end payloads.
//   - **Watching**: external edits to the data directory are reloaded via fsnotify.
//
// Usage:
//
//	svc, err := copydeck.New("./decks",
//		copydeck.WithLogger(logger),
//	)
//
//	// Add a card to the active deck
//	deck, err := svc.AddCard(ctx)
package copydeck
