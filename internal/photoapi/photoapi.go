package photoapi

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound indicates the remote source has no record for the requested id.
var ErrNotFound = errors.New("photoapi: not found")

// Photo is a single record from the remote photo source. Records are
// immutable once fetched; favorites keep their own full copies.
type Photo struct {
	ID           int64  `json:"id"`
	AlbumID      int64  `json:"albumId"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Album labels a collection of photos. Used only for filter options.
type Album struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// StatusError reports a non-2xx response from the remote source.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("photoapi: unexpected status %s", e.Status)
}

// PhotoSource is the read-only paginated photo collection the gallery
// browses. Implementations do not retry; callers surface failures for a
// manual retry.
type PhotoSource interface {
	// ListPhotos fetches one page of the feed. albumID narrows the feed to a
	// single album when positive.
	ListPhotos(ctx context.Context, page, limit int, albumID int64) ([]Photo, error)

	// GetPhoto fetches a single photo by id.
	GetPhoto(ctx context.Context, id int64) (Photo, error)

	// ListAlbums fetches every album label.
	ListAlbums(ctx context.Context) ([]Album, error)

	// FetchImage streams raw image bytes from an image URL, returning the
	// body and its content type. The caller closes the body.
	FetchImage(ctx context.Context, url string) (io.ReadCloser, string, error)
}
