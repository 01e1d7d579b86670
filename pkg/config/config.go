// Package config loads OLIVIA's engine configuration from a TOML file,
// using the teacher's existing BurntSushi/toml dependency for the same
// concern it was already pulled in for: structured, human-editable config.
package config

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/olivia-graph/olivia/pkg/errcode"
)

// Config holds the settings decoded from olivia.toml. The CLI reads Store
// to construct a backend; the Engine fields are decoded but no code outside
// this package reads them.
type Config struct {
	Engine Engine `toml:"engine"`
	Store  Store  `toml:"store"`
}

// Engine configures the metric sweep engine (component D).
type Engine struct {
	// Workers is decoded from the file only. ComputeParallel does not read
	// it; it sizes its pool by runtime.NumCPU().
	Workers int `toml:"workers"`
	// ProgressEvery is decoded from the file only. The sweeps do not read
	// it; they take the interval between OnSweepProgress calls from
	// metrics.Options, which defaults to metrics.ProgressEvery.
	ProgressEvery int `toml:"progress_every"`
	// BitsetDensityThreshold is decoded from the file only. The sweeps take
	// the sparse-to-dense crossover of adaptive descendant sets from
	// metrics.Options, not from this field.
	BitsetDensityThreshold float64 `toml:"bitset_density_threshold"`
}

// Store configures which persistence backend pkg/store should construct.
type Store struct {
	// Backend selects "none", "file", "redis", or "mongo".
	Backend string `toml:"backend"`

	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// TTL is how long cached entries live; zero means "forever".
	TTL time.Duration `toml:"ttl"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		Engine: Engine{
			BitsetDensityThreshold: 0.1,
		},
		Store: Store{
			Backend:         "file",
			Dir:             defaultCacheDir(),
			MongoDatabase:   "olivia",
			MongoCollection: "models",
		},
	}
}

// Load reads and decodes a TOML config file at path, falling back to
// Default for any field left unset.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errcode.Wrap(errcode.MalformedInput, err, "decoding config file %q", path)
	}
	return cfg, nil
}
