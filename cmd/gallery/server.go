package main

import (
	"net/http"

	"photogallery/internal/app/favorites"
	"photogallery/internal/app/photos"
	"photogallery/internal/feedservice"
	"photogallery/internal/http/middleware"
	"photogallery/internal/httpapi"
	"photogallery/internal/photoapi"
	"photogallery/internal/share"
	"photogallery/internal/store"
)

func newHTTPHandler(cfg Config, favStore *store.Store) http.Handler {
	source := photoapi.NewClient(cfg.PhotoAPIURL)

	photoSvc := photos.New(source)
	favoritesSvc := favorites.New(favStore)
	feedSvc := feedservice.New(source)
	signer := share.NewSigner(cfg.ShareSecret, cfg.ShareTTL)

	handler := httpapi.New(photoSvc, favoritesSvc, feedSvc, signer).Routes()

	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	return handler
}
