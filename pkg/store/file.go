package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"peak/pkg/schema"
	"peak/pkg/utils"
)

// File keeps each snapshot as <dir>/<key>.json.
type File struct {
	dir string
	mu  sync.Mutex
}

func NewFile(dir string) *File {
	return &File{dir: dir}
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) LoadHistory(_ context.Context) ([]schema.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	scripts, err := utils.Load[[]schema.Script](f.path(HistoryKey))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return scripts, nil
}

func (f *File) SaveHistory(_ context.Context, scripts []schema.Script) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if scripts == nil {
		scripts = []schema.Script{}
	}
	return utils.Save(f.path(HistoryKey), scripts)
}

func (f *File) LoadConfig(_ context.Context) (schema.Config, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := utils.Load[schema.Config](f.path(ConfigKey))
	if errors.Is(err, os.ErrNotExist) {
		return schema.Config{}, false, nil
	}
	if err != nil {
		return schema.Config{}, false, err
	}
	return cfg, true, nil
}

func (f *File) SaveConfig(_ context.Context, cfg schema.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return utils.Save(f.path(ConfigKey), cfg)
}

func (f *File) Close() error { return nil }
