package feedservice

import (
	"context"
	"sync"

	"photogallery/internal/photoapi"
)

// PageSize is the fixed fetch unit of the photo feed.
const PageSize = 24

// State is the pagination controller's current phase.
type State string

const (
	// StateIdle means the feed is ready for the next advance.
	StateIdle State = "idle"
	// StateLoading means a page fetch is in flight.
	StateLoading State = "loading"
	// StateError means the last fetch failed; advances stay inert until an
	// explicit retry.
	StateError State = "error"
)

// Query narrows and orders the feed. AlbumID zero means all albums.
type Query struct {
	Search  string `json:"search"`
	AlbumID int64  `json:"albumId"`
	Sort    Sort   `json:"sort"`
}

// Snapshot is the observable feed state: the filtered, sorted view of the
// accumulated items plus the controller's position.
type Snapshot struct {
	Items   []photoapi.Photo `json:"items"`
	Page    int              `json:"page"`
	HasMore bool             `json:"hasMore"`
	State   State            `json:"state"`
	Error   string           `json:"error,omitempty"`
	Query   Query            `json:"query"`
}

// Service drives the infinite-scroll feed: Idle -> Loading(page) -> Idle,
// with a Reset transition that returns to page one and discards accumulated
// results. Stale completions are discarded by comparing request identifiers,
// so a fetch superseded by a reset finishes harmlessly.
type Service struct {
	source   photoapi.PhotoSource
	pageSize int

	mu      sync.Mutex
	query   Query
	items   []photoapi.Photo
	page    int // next page to fetch, 1-based
	hasMore bool
	state   State
	lastErr error
	reqID   uint64 // latest issued request identifier
}

// New constructs a feed over the given photo source.
func New(source photoapi.PhotoSource) *Service {
	return &Service{
		source:   source,
		pageSize: PageSize,
		query:    Query{Sort: SortNewest},
		page:     1,
		hasMore:  true,
		state:    StateIdle,
	}
}

// Reset applies a new query, forcing the feed back to page one and dropping
// accumulated items. Any in-flight fetch becomes stale and its completion is
// ignored.
func (s *Service) Reset(query Query) Snapshot {
	if query.Sort == "" {
		query.Sort = SortNewest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reqID++
	s.query = query
	s.items = nil
	s.page = 1
	s.hasMore = true
	s.state = StateIdle
	s.lastErr = nil
	return s.snapshotLocked()
}

// LoadNext advances the feed by one page. The call is inert while a fetch is
// in flight, after the feed is exhausted, and while the feed sits in the
// error state.
func (s *Service) LoadNext(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.state != StateIdle || !s.hasMore {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	s.state = StateLoading
	s.reqID++
	id := s.reqID
	page := s.page
	albumID := s.query.AlbumID
	s.mu.Unlock()

	batch, err := s.source.ListPhotos(ctx, page, s.pageSize, albumID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.reqID {
		// Superseded by a reset while in flight; discard the completion.
		return s.snapshotLocked(), nil
	}

	if err != nil {
		s.state = StateError
		s.lastErr = err
		return s.snapshotLocked(), err
	}

	s.items = append(s.items, batch...)
	s.page = page + 1
	s.hasMore = len(batch) == s.pageSize
	s.state = StateIdle
	s.lastErr = nil
	return s.snapshotLocked(), nil
}

// Retry clears the error state and attempts the failed page again.
func (s *Service) Retry(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.state == StateError {
		s.state = StateIdle
		s.lastErr = nil
	}
	s.mu.Unlock()
	return s.LoadNext(ctx)
}

// Snapshot returns the current observable state without advancing.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	view := SortPhotos(FilterByTitle(s.items, s.query.Search), s.query.Sort)
	snap := Snapshot{
		Items:   view,
		Page:    s.page - 1,
		HasMore: s.hasMore,
		State:   s.state,
		Query:   s.query,
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}
