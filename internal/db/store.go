package db

import (
	"context"
	"fmt"

	"github.com/guialocal/guialocal-backend/config"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/logger"
)

// OpenStore connects the document backend selected by cfg.Store.Driver.
// The postgres backend is migrated before it is returned.
func OpenStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		if err := Initialize(&cfg.Database); err != nil {
			return nil, err
		}
		if err := Migrate(GetDB()); err != nil {
			return nil, err
		}
		return docstore.NewGormStore(GetDB()), nil
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
		defer cancel()
		store, err := docstore.ConnectMongo(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory", "":
		logger.Warn("Using in-memory document store; data is lost on restart")
		return docstore.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
