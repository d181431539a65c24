package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"photogallery/internal/photoapi"
)

// FileSnapshotter keeps the favorites map in a single JSON object keyed by
// photo id, the same layout a browser would keep under one storage key.
type FileSnapshotter struct {
	path string
}

// NewFileSnapshotter stores snapshots at the given path, creating parent
// directories on the first save.
func NewFileSnapshotter(path string) *FileSnapshotter {
	return &FileSnapshotter{path: path}
}

func (f *FileSnapshotter) Load(ctx context.Context) (map[int64]photoapi.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read favorites file: %w", err)
	}

	return decodeSnapshot(data)
}

func (f *FileSnapshotter) Save(ctx context.Context, favorites map[int64]photoapi.Photo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeSnapshot(favorites)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create favorites dir: %w", err)
		}
	}

	// Write-then-rename so a crash mid-write never corrupts the snapshot.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".favorites-*.json")
	if err != nil {
		return fmt.Errorf("create temp favorites file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write favorites file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close favorites file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace favorites file: %w", err)
	}
	return nil
}

// JSON object keys are strings, so the id map round-trips through
// map[string]Photo.
func encodeSnapshot(favorites map[int64]photoapi.Photo) ([]byte, error) {
	keyed := make(map[string]photoapi.Photo, len(favorites))
	for id, photo := range favorites {
		keyed[strconv.FormatInt(id, 10)] = photo
	}
	data, err := json.MarshalIndent(keyed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode favorites snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (map[int64]photoapi.Photo, error) {
	var keyed map[string]photoapi.Photo
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("decode favorites snapshot: %w", err)
	}

	favorites := make(map[int64]photoapi.Photo, len(keyed))
	for key, photo := range keyed {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode favorites snapshot: bad key %q", key)
		}
		favorites[id] = photo
	}
	return favorites, nil
}
