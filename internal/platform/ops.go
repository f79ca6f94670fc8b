package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/copydeck/pkg/adapters/fs"
	"github.com/aretw0/copydeck/pkg/core"
)

// Init prepares the storage backend described by opts and returns it.
// Unless a repository was injected, path is the directory holding the slot files.
func Init(ctx context.Context, path string, opts ...Option) (core.Repository, error) {
	o := applyOptions(opts)
	return initRepository(ctx, path, o)
}

func initRepository(ctx context.Context, path string, o *options) (core.Repository, error) {
	repo := o.repository
	if repo == nil {
		if path == "" {
			return nil, fmt.Errorf("data directory is required")
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		repo = fs.NewRepository(fs.Config{
			Path:         abs,
			MustExist:    o.mustExist,
			ReadOnly:     o.readOnly,
			Perm:         o.perm,
			Logger:       o.logger,
			ErrorHandler: o.errorHandler,
		})
	}

	if err := repo.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return repo, nil
}
