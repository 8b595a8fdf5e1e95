package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// File keeps modes in a JSON object keyed by user id and rewrites the whole
// file on every change.
type File struct {
	path string

	mu    sync.Mutex
	modes map[int64]Mode
}

// OpenFile loads path if it exists. A file that cannot be parsed is logged
// and replaced on the next write.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("empty file path")
	}

	f := &File{path: path, modes: map[int64]Mode{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	modes, err := decodeModes(data)
	if err != nil {
		log.Printf("failed to load storage file %s: %s\n", path, err)

		return f, nil
	}

	f.modes = modes

	return f, nil
}

func (f *File) Get(_ context.Context, userID int64) (Mode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.modes[userID], nil
}

func (f *File) Set(_ context.Context, userID int64, mode Mode) error {
	if err := checkMode(mode); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.modes[userID]
	f.modes[userID] = mode

	if err := f.save(); err != nil {
		if had {
			f.modes[userID] = prev
		} else {
			delete(f.modes, userID)
		}

		return err
	}

	return nil
}

func (f *File) Close() error {
	return nil
}

// save writes to a temporary file next to path and renames it over path.
func (f *File) save() error {
	data, err := json.MarshalIndent(encodeModes(f.modes), "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", f.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("save %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", f.path, err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("save %s: %w", f.path, err)
	}

	return nil
}

func encodeModes(modes map[int64]Mode) map[string]Mode {
	out := make(map[string]Mode, len(modes))
	for id, mode := range modes {
		out[strconv.FormatInt(id, 10)] = mode
	}

	return out
}

// decodeModes parses the stored object, skipping entries with a bad key or
// an unknown mode.
func decodeModes(data []byte) (map[int64]Mode, error) {
	raw := map[string]Mode{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	modes := make(map[int64]Mode, len(raw))
	for key, mode := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || !mode.Valid() {
			continue
		}

		modes[id] = mode
	}

	return modes, nil
}
