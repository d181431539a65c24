package photos

import (
	"context"
	"fmt"
	"io"
	"mime"

	"photogallery/internal/feedservice"
	"photogallery/internal/photoapi"
)

// Download is an image stream handed to the HTTP layer.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

// Service provides photo detail, album and download workflows.
type Service interface {
	Get(ctx context.Context, id int64) (photoapi.Photo, error)
	Albums(ctx context.Context) ([]photoapi.Album, error)
	Browse(ctx context.Context, page int, query feedservice.Query) ([]photoapi.Photo, bool, error)
	Download(ctx context.Context, id int64) (Download, error)
}

type service struct {
	source photoapi.PhotoSource
}

// New constructs a photo Service over the given source.
func New(source photoapi.PhotoSource) Service {
	return &service{source: source}
}

func (s *service) Get(ctx context.Context, id int64) (photoapi.Photo, error) {
	if err := ctx.Err(); err != nil {
		return photoapi.Photo{}, err
	}
	return s.source.GetPhoto(ctx, id)
}

func (s *service) Albums(ctx context.Context) ([]photoapi.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.source.ListAlbums(ctx)
}

// Browse fetches one page and applies the in-memory filter and sort to it.
// hasMore reflects the raw page size, not the filtered count.
func (s *service) Browse(ctx context.Context, page int, query feedservice.Query) ([]photoapi.Photo, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	batch, err := s.source.ListPhotos(ctx, page, feedservice.PageSize, query.AlbumID)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(batch) == feedservice.PageSize
	view := feedservice.SortPhotos(feedservice.FilterByTitle(batch, query.Search), query.Sort)
	return view, hasMore, nil
}

// Download streams the original image for the photo.
func (s *service) Download(ctx context.Context, id int64) (Download, error) {
	if err := ctx.Err(); err != nil {
		return Download{}, err
	}

	photo, err := s.source.GetPhoto(ctx, id)
	if err != nil {
		return Download{}, err
	}

	body, contentType, err := s.source.FetchImage(ctx, photo.URL)
	if err != nil {
		return Download{}, err
	}

	return Download{
		Body:        body,
		ContentType: contentType,
		Filename:    fmt.Sprintf("photo-%d%s", photo.ID, extensionFor(contentType)),
	}, nil
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
