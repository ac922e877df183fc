package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt marks persisted JSON that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt persisted data")

// Load decodes the JSON file at path into a T. A missing file returns
// os.ErrNotExist, undecodable content returns an error wrapping ErrCorrupt.
func Load[T any](path string) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	var v T
	if err := json.NewDecoder(f).Decode(&v); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return v, nil
}

// Save writes v as indented JSON. The file is replaced atomically so a crash
// mid-write never leaves a truncated snapshot behind.
func Save[T any](path string, v T) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
