package config

import (
	"context"

	"github.com/olivia-graph/olivia/pkg/errcode"
	"github.com/olivia-graph/olivia/pkg/store"
)

// BuildStore constructs the store.Store selected by cfg.Store.Backend.
func BuildStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "", "none":
		return store.NewNullStore(), nil
	case "file":
		return store.NewFileStore(cfg.Store.Dir)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Store.MongoURI,
			Database:   cfg.Store.MongoDatabase,
			Collection: cfg.Store.MongoCollection,
		})
	default:
		return nil, errcode.New(errcode.MalformedInput, "unknown store backend %q", cfg.Store.Backend)
	}
}
