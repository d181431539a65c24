package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"photogallery/internal/feedservice"
	"photogallery/internal/photoapi"
)

type browseResponse struct {
	Items   []photoapi.Photo `json:"items"`
	Page    int              `json:"page"`
	HasMore bool             `json:"hasMore"`
}

// handleBrowsePhotos serves a stateless page of the feed:
// GET /api/v1/photos?page=N&q=...&album_id=A&sort=idDesc
func (s *Server) handleBrowsePhotos(w http.ResponseWriter, r *http.Request) {
	query, err := queryFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			http.Error(w, "page must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	items, hasMore, err := s.photos.Browse(r.Context(), page, query)
	if err != nil {
		writeSourceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, browseResponse{Items: items, Page: page, HasMore: hasMore})
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parsePhotoID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := s.photos.Get(r.Context(), id)
	if err != nil {
		writeSourceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, photo)
}

func (s *Server) handleDownloadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parsePhotoID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	download, err := s.photos.Download(r.Context(), id)
	if err != nil {
		writeSourceError(w, err)
		return
	}
	defer download.Body.Close()

	if download.ContentType != "" {
		w.Header().Set("Content-Type", download.ContentType)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	_, _ = io.Copy(w, download.Body)
}

type shareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

func (s *Server) handleSharePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parsePhotoID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Confirm the photo exists before minting a link for it.
	if _, err := s.photos.Get(r.Context(), id); err != nil {
		writeSourceError(w, err)
		return
	}

	token, err := s.signer.Sign(id)
	if err != nil {
		http.Error(w, "Could not create share link", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{
		Token: token,
		URL:   "/api/v1/shared/" + token,
	})
}

func (s *Server) handleResolveShared(w http.ResponseWriter, r *http.Request) {
	id, err := s.signer.Verify(r.PathValue("token"))
	if err != nil {
		http.Error(w, "Share link is invalid or expired", http.StatusNotFound)
		return
	}

	photo, err := s.photos.Get(r.Context(), id)
	if err != nil {
		writeSourceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, photo)
}

func (s *Server) handleAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.photos.Albums(r.Context())
	if err != nil {
		writeSourceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// queryFromRequest reads the shared filter parameters q, album_id and sort.
func queryFromRequest(r *http.Request) (feedservice.Query, error) {
	values := r.URL.Query()

	query := feedservice.Query{
		Search: values.Get("q"),
		Sort:   feedservice.ParseSort(values.Get("sort")),
	}

	if raw := values.Get("album_id"); raw != "" {
		albumID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || albumID < 1 {
			return feedservice.Query{}, errors.New("album_id must be a positive integer")
		}
		query.AlbumID = albumID
	}

	return query, nil
}
