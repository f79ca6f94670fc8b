package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	StorageKey     string   `json:"storage_key"`
	Loaded         bool     `json:"loaded"`
	DeckCount      int      `json:"deck_count"`
	CardCount      int      `json:"card_count"`
	Active         string   `json:"active"`
	Decks          []string `json:"decks"`
	RepositoryType string   `json:"repository_type"`
	Repository     any      `json:"repository,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	var repoState any
	if s.repo != nil {
		repoType = "repository"
		// Try to get component type if repository implements introspection.Component
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
		if in, ok := s.repo.(introspection.Introspectable); ok {
			repoState = in.State()
		}
	}

	cards := 0
	for _, d := range s.store.Decks() {
		for _, r := range d.Rows {
			cards += len(r.Columns)
		}
	}

	return ServiceState{
		StorageKey:     s.cfg.Key,
		Loaded:         s.loaded,
		DeckCount:      s.store.Len(),
		CardCount:      cards,
		Active:         s.active,
		Decks:          s.store.Names(),
		RepositoryType: repoType,
		Repository:     repoState,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
