package platform

import (
	"context"

	"github.com/aretw0/copydeck/pkg/core"
)

// New assembles a loaded Service.
//
//	svc, err := copydeck.New("./decks", copydeck.WithReadOnly(true))
//
// The path is the data directory for the filesystem adapter; it is ignored
// when WithRepository is used.
func New(ctx context.Context, path string, opts ...Option) (*core.Service, error) {
	o := applyOptions(opts)

	repo, err := initRepository(ctx, path, o)
	if err != nil {
		return nil, err
	}

	service := core.NewService(repo, core.ServiceConfig{
		Key:        o.storageKey,
		Logger:     o.logger,
		NewID:      o.newID,
		StrictLoad: o.strictLoad,
	})
	if err := service.Load(ctx); err != nil {
		return nil, err
	}
	return service, nil
}
