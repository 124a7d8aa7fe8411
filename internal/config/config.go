package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/cmarsh/ked/internal/engine/snapshot"
)

// ErrInvalidInterval is returned when a loaded snapshotInterval is not
// positive; the zero value would make the snapshot store divide by zero.
var ErrInvalidInterval = errors.New("snapshot interval must be positive")

// DefaultMaxLineBytes is the maximum payload line length the spec's §6
// calls out: 1024 bytes plus newline plus NUL.
const DefaultMaxLineBytes = 1024

// Config holds the engine's construction-time tunables.
type Config struct {
	// SnapshotInterval is K, the number of committed mutations between
	// snapshot captures. Carried over from the source as 300.
	SnapshotInterval int `toml:"snapshot_interval"`
	// MaxLineBytes bounds a single payload line, not counting its
	// terminating newline.
	MaxLineBytes int `toml:"max_line_bytes"`
	// ReclaimPool toggles the history log's Command slot-reuse pool. The
	// source always reuses; disabling it falls back to a plain allocator,
	// which §9 of the spec permits when preserving it isn't worth the
	// bookkeeping.
	ReclaimPool bool `toml:"reclaim_pool"`
}

// Default returns the built-in tunables: K=300 (snapshot.DefaultInterval),
// 1024-byte max lines, and the reclaim pool enabled.
func Default() Config {
	return Config{
		SnapshotInterval: snapshot.DefaultInterval,
		MaxLineBytes:     DefaultMaxLineBytes,
		ReclaimPool:      true,
	}
}

// Load reads tunables from a TOML file at path, overlaying them onto
// Default(). A path of "" or a missing file is not an error: the defaults
// apply unchanged, matching keystorm's loader.TOMLLoader.Load behavior for
// an absent config file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.SnapshotInterval <= 0 {
		return cfg, fmt.Errorf("%s: snapshot_interval=%d: %w", path, cfg.SnapshotInterval, ErrInvalidInterval)
	}
	return cfg, nil
}
