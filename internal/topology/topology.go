// Package topology renders the runtime shape of a deck store as a Mermaid
// diagram.
package topology

import (
	"fmt"

	"github.com/aretw0/introspection"

	"github.com/aretw0/copydeck/pkg/adapters/fs"
	"github.com/aretw0/copydeck/pkg/core"
)

// Node is one box of the diagram. Status must be one of the classes of
// introspection.DefaultStyles (running, suspended, stopped, ...).
type Node struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []Node
}

// Build turns a service state into a tree: the store with its decks and, when
// the backend is the filesystem adapter, the repository and its watcher.
func Build(state core.ServiceState) Node {
	decks := make([]Node, 0, len(state.Decks))
	for _, name := range state.Decks {
		status := "suspended"
		if name == state.Active {
			status = "running"
		}
		decks = append(decks, Node{
			Name:     name,
			Status:   status,
			Metadata: map[string]string{"type": "deck"},
		})
	}

	store := Node{
		Name:   "Store",
		Status: "running",
		Metadata: map[string]string{
			"type":  "container",
			"key":   state.StorageKey,
			"cards": fmt.Sprintf("%d", state.CardCount),
		},
		Children: decks,
	}

	children := []Node{store}
	if repo, ok := state.Repository.(fs.RepositoryState); ok {
		watcher := "suspended"
		if repo.WatcherActive {
			watcher = "running"
		}
		repoStatus := "running"
		if repo.ReadOnly {
			repoStatus = "stopped"
		}
		children = append(children, Node{
			Name:   "Repository",
			Status: repoStatus,
			Metadata: map[string]string{
				"type":   "process",
				"path":   repo.Path,
				"writes": fmt.Sprintf("%d", repo.Writes),
			},
			Children: []Node{{
				Name:     "Watcher",
				Status:   watcher,
				Metadata: map[string]string{"type": "goroutine"},
			}},
		})
	}

	return Node{
		Name:     "copydeck",
		Status:   "running",
		Metadata: map[string]string{"type": "container", "repository": state.RepositoryType},
		Children: children,
	}
}

// Mermaid renders the tree for state.
func Mermaid(state core.ServiceState) string {
	config := introspection.DefaultDiagramConfig()
	config.SecondaryID = "copydeck"
	config.SecondaryLabel = "Deck Store Topology"
	return introspection.TreeDiagram(Build(state), config)
}
