package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string `toml:"backend" json:"backend"`
	Dir      string `toml:"dir" json:"dir,omitempty"`
	RedisURL string `toml:"redis_addr" json:"redis_addr,omitempty"`
	MongoURI string `toml:"mongo_uri" json:"mongo_uri,omitempty"`
	MongoDB  string `toml:"mongo_database" json:"mongo_database,omitempty"`
}

// Open constructs the backend named by opts.Backend. An empty backend
// selects the file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: directory not set")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo cache: uri not set")
		}
		c, err := NewMongoCache(ctx, opts.MongoURI, opts.MongoDB, "")
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
