package favorites

import (
	"context"

	"photogallery/internal/feedservice"
	"photogallery/internal/photoapi"
)

// Store defines the persistence operations required for favorites workflows.
type Store interface {
	Toggle(ctx context.Context, photo photoapi.Photo) (bool, error)
	Remove(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
	List(ctx context.Context) ([]photoapi.Photo, error)
	Export(ctx context.Context, ids []int64) ([]photoapi.Photo, error)
	Import(ctx context.Context, data []byte) (int, error)
	Contains(id int64) bool
}

// Service describes high level favorites operations used by HTTP handlers.
type Service interface {
	Toggle(ctx context.Context, photo photoapi.Photo) (bool, error)
	Remove(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
	List(ctx context.Context, sort feedservice.Sort) ([]photoapi.Photo, error)
	Export(ctx context.Context, ids []int64, sort feedservice.Sort) ([]photoapi.Photo, error)
	Import(ctx context.Context, data []byte) (int, error)
	Contains(ctx context.Context, id int64) (bool, error)
}

type service struct {
	store Store
}

// New constructs a favorites Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Toggle(ctx context.Context, photo photoapi.Photo) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.Toggle(ctx, photo)
}

func (s *service) Remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Remove(ctx, id)
}

func (s *service) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.ClearAll(ctx)
}

func (s *service) List(ctx context.Context, sort feedservice.Sort) ([]photoapi.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	photos, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return feedservice.SortPhotos(photos, sort), nil
}

func (s *service) Export(ctx context.Context, ids []int64, sort feedservice.Sort) ([]photoapi.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	photos, err := s.store.Export(ctx, ids)
	if err != nil {
		return nil, err
	}
	return feedservice.SortPhotos(photos, sort), nil
}

func (s *service) Import(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.Import(ctx, data)
}

func (s *service) Contains(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.Contains(id), nil
}
