package connection

import (
	"context"
	"fmt"

	"teamhub/config"
	"teamhub/store"
)

// OpenStore builds the storage backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		return store.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "firestore":
		client, err := FBConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store.NewFirestoreStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
