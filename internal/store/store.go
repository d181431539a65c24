package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"photogallery/internal/photoapi"
)

// ErrMalformedImport indicates an import payload whose top level is not a
// valid JSON array. The import is rejected whole; no partial merge happens.
var ErrMalformedImport = errors.New("store: import is not a JSON array")

// Snapshotter persists the full favorites map. Load and Save always move the
// entire snapshot so a read issued right after a mutation observes the new
// state.
type Snapshotter interface {
	Load(ctx context.Context) (map[int64]photoapi.Photo, error)
	Save(ctx context.Context, favorites map[int64]photoapi.Photo) error
}

// Store holds the favorites map: photo id to a full, self-contained copy of
// the photo, so a favorite survives the record disappearing from the remote
// source. Every successful mutation persists synchronously before returning.
type Store struct {
	mu        sync.RWMutex
	favorites map[int64]photoapi.Photo
	snap      Snapshotter
}

// Open loads the persisted snapshot into a new Store. A corrupt or
// unreadable snapshot degrades to an empty store rather than failing.
func Open(ctx context.Context, snap Snapshotter) *Store {
	favorites, err := snap.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("favorites snapshot unreadable, starting empty")
		favorites = nil
	}
	if favorites == nil {
		favorites = make(map[int64]photoapi.Photo)
	}
	return &Store{favorites: favorites, snap: snap}
}

// Toggle adds the photo when absent and removes it when present. Returns
// whether the photo is a favorite after the call.
func (s *Store) Toggle(ctx context.Context, photo photoapi.Photo) (bool, error) {
	if photo.ID <= 0 {
		return false, fmt.Errorf("store: invalid photo id %d", photo.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.favorites[photo.ID]
	if present {
		delete(s.favorites, photo.ID)
	} else {
		s.favorites[photo.ID] = photo
	}

	if err := s.persistLocked(ctx); err != nil {
		// Roll back so memory and snapshot stay consistent.
		if present {
			s.favorites[photo.ID] = photo
		} else {
			delete(s.favorites, photo.ID)
		}
		return present, err
	}
	return !present, nil
}

// Remove deletes the favorite with the given id. Removing an absent id is a
// no-op, never an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	photo, present := s.favorites[id]
	if !present {
		return nil
	}
	delete(s.favorites, id)

	if err := s.persistLocked(ctx); err != nil {
		s.favorites[id] = photo
		return err
	}
	return nil
}

// ClearAll replaces the map with an empty one. Confirmation is the caller's
// concern.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.favorites
	s.favorites = make(map[int64]photoapi.Photo)

	if err := s.persistLocked(ctx); err != nil {
		s.favorites = old
		return err
	}
	return nil
}

// Import merges a JSON array of photo records into the store. Elements that
// do not structurally match a photo are skipped silently; a top-level value
// that is not a valid JSON array rejects the whole import with
// ErrMalformedImport and leaves the store untouched. Returns the number of
// records merged.
func (s *Store) Import(ctx context.Context, data []byte) (int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	var accepted []photoapi.Photo
	for _, element := range raw {
		var photo photoapi.Photo
		if err := json.Unmarshal(element, &photo); err != nil {
			continue
		}
		if !validPhoto(photo) {
			continue
		}
		accepted = append(accepted, photo)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := make(map[int64]photoapi.Photo)
	added := make([]int64, 0, len(accepted))
	for _, photo := range accepted {
		if prev, ok := s.favorites[photo.ID]; ok {
			replaced[photo.ID] = prev
		} else {
			added = append(added, photo.ID)
		}
		s.favorites[photo.ID] = photo
	}

	if err := s.persistLocked(ctx); err != nil {
		for id, prev := range replaced {
			s.favorites[id] = prev
		}
		for _, id := range added {
			delete(s.favorites, id)
		}
		return 0, err
	}
	return len(accepted), nil
}

// Export returns copies of the requested favorites. A nil or empty ids slice
// exports the entire store. Ordering is left to the caller's sort.
func (s *Store) Export(ctx context.Context, ids []int64) ([]photoapi.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ids) == 0 {
		photos := make([]photoapi.Photo, 0, len(s.favorites))
		for _, photo := range s.favorites {
			photos = append(photos, photo)
		}
		return photos, nil
	}

	photos := make([]photoapi.Photo, 0, len(ids))
	for _, id := range ids {
		if photo, ok := s.favorites[id]; ok {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

// List returns a copy of every favorite, unordered.
func (s *Store) List(ctx context.Context) ([]photoapi.Photo, error) {
	return s.Export(ctx, nil)
}

// Contains reports whether the photo id is currently a favorite.
func (s *Store) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[id]
	return ok
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.favorites)
}

func (s *Store) persistLocked(ctx context.Context) error {
	snapshot := make(map[int64]photoapi.Photo, len(s.favorites))
	for id, photo := range s.favorites {
		snapshot[id] = photo
	}
	if err := s.snap.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

// validPhoto checks the structural requirements for an imported record:
// positive numeric id and non-empty title, url and thumbnail url.
func validPhoto(p photoapi.Photo) bool {
	return p.ID > 0 && p.Title != "" && p.URL != "" && p.ThumbnailURL != ""
}
