package store

import (
	"context"

	"peak/pkg/schema"
	"peak/pkg/utils"
)

// Keys under which the two snapshots are kept, whatever the backend.
const (
	HistoryKey = "peak_scripts_v9"
	ConfigKey  = "peak_config_v9"
)

// ErrCorrupt is returned alongside an empty value when a snapshot exists but
// cannot be decoded. Callers should warn and carry on with the empty value.
var ErrCorrupt = utils.ErrCorrupt

// Store persists the history list and the configuration as full snapshots.
type Store interface {
	// LoadHistory returns nil, nil when nothing was saved yet.
	LoadHistory(ctx context.Context) ([]schema.Script, error)
	SaveHistory(ctx context.Context, scripts []schema.Script) error
	// LoadConfig reports ok=false when nothing was saved yet.
	LoadConfig(ctx context.Context) (cfg schema.Config, ok bool, err error)
	SaveConfig(ctx context.Context, cfg schema.Config) error
	Close() error
}
