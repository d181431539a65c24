package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"photogallery/internal/app/photos"
	"photogallery/internal/feedservice"
	"photogallery/internal/photoapi"
	"photogallery/internal/store"
)

// PhotoService exposes photo detail, album and download workflows.
type PhotoService interface {
	Get(ctx context.Context, id int64) (photoapi.Photo, error)
	Albums(ctx context.Context) ([]photoapi.Album, error)
	Browse(ctx context.Context, page int, query feedservice.Query) ([]photoapi.Photo, bool, error)
	Download(ctx context.Context, id int64) (photos.Download, error)
}

// FavoritesService coordinates the locally persisted favorites list.
type FavoritesService interface {
	Toggle(ctx context.Context, photo photoapi.Photo) (bool, error)
	Remove(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
	List(ctx context.Context, sort feedservice.Sort) ([]photoapi.Photo, error)
	Export(ctx context.Context, ids []int64, sort feedservice.Sort) ([]photoapi.Photo, error)
	Import(ctx context.Context, data []byte) (int, error)
	Contains(ctx context.Context, id int64) (bool, error)
}

// FeedService drives the infinite-scroll pagination state machine.
type FeedService interface {
	Reset(query feedservice.Query) feedservice.Snapshot
	LoadNext(ctx context.Context) (feedservice.Snapshot, error)
	Retry(ctx context.Context) (feedservice.Snapshot, error)
	Snapshot() feedservice.Snapshot
}

// ShareSigner mints and verifies share tokens for photo links.
type ShareSigner interface {
	Sign(photoID int64) (string, error)
	Verify(token string) (int64, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	photos    PhotoService
	favorites FavoritesService
	feed      FeedService
	signer    ShareSigner
}

// New configures a Server with the given services.
func New(photoSvc PhotoService, favoritesSvc FavoritesService, feedSvc FeedService, signer ShareSigner) *Server {
	return &Server{
		photos:    photoSvc,
		favorites: favoritesSvc,
		feed:      feedSvc,
		signer:    signer,
	}
}

// Routes exposes the HTTP handlers for the gallery.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Photo routes
	mux.HandleFunc("GET /api/v1/photos", s.handleBrowsePhotos)
	mux.HandleFunc("GET /api/v1/photos/{id}", s.handleGetPhoto)
	mux.HandleFunc("GET /api/v1/photos/{id}/download", s.handleDownloadPhoto)
	mux.HandleFunc("POST /api/v1/photos/{id}/share", s.handleSharePhoto)
	mux.HandleFunc("GET /api/v1/shared/{token}", s.handleResolveShared)
	mux.HandleFunc("GET /api/v1/albums", s.handleAlbums)

	// Feed routes
	mux.HandleFunc("GET /api/v1/feed", s.handleFeedSnapshot)
	mux.HandleFunc("POST /api/v1/feed/next", s.handleFeedNext)
	mux.HandleFunc("POST /api/v1/feed/reset", s.handleFeedReset)
	mux.HandleFunc("POST /api/v1/feed/retry", s.handleFeedRetry)

	// Favorites routes
	mux.HandleFunc("GET /api/v1/favorites", s.handleListFavorites)
	mux.HandleFunc("POST /api/v1/favorites/toggle", s.handleToggleFavorite)
	mux.HandleFunc("GET /api/v1/favorites/check", s.handleCheckFavorite)
	mux.HandleFunc("GET /api/v1/favorites/export", s.handleExportFavorites)
	mux.HandleFunc("POST /api/v1/favorites/import", s.handleImportFavorites)
	mux.HandleFunc("DELETE /api/v1/favorites/{id}", s.handleRemoveFavorite)
	mux.HandleFunc("DELETE /api/v1/favorites", s.handleClearFavorites)

	return mux
}

// parsePhotoID validates a route id parameter. Non-numeric or non-positive
// ids short-circuit before any fetch happens.
func parsePhotoID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("photo id must be a positive integer")
	}
	return id, nil
}

// writeSourceError maps remote source failures onto HTTP statuses. Network
// failures surface as retryable 502s; nothing here is fatal.
func writeSourceError(w http.ResponseWriter, err error) {
	var statusErr *photoapi.StatusError
	switch {
	case errors.Is(err, photoapi.ErrNotFound):
		http.Error(w, "Photo not found", http.StatusNotFound)
	case errors.As(err, &statusErr):
		http.Error(w, "Photo source unavailable, please retry", http.StatusBadGateway)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "Request cancelled", http.StatusRequestTimeout)
	case errors.Is(err, store.ErrMalformedImport):
		http.Error(w, "Import must be a JSON array of photos", http.StatusBadRequest)
	default:
		http.Error(w, "Photo source unavailable, please retry", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
