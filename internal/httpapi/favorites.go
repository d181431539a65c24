package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"photogallery/internal/feedservice"
	"photogallery/internal/photoapi"
	"photogallery/internal/store"
)

// maxImportBytes bounds favorites import payloads.
const maxImportBytes = 10 << 20

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	sort := feedservice.ParseSort(r.URL.Query().Get("sort"))

	favorites, err := s.favorites.List(r.Context(), sort)
	if err != nil {
		http.Error(w, "Could not read favorites", http.StatusInternalServerError)
		return
	}
	if favorites == nil {
		favorites = []photoapi.Photo{}
	}
	writeJSON(w, http.StatusOK, favorites)
}

type toggleResponse struct {
	Favorited bool `json:"favorited"`
}

// handleToggleFavorite flips membership for the full photo record in the
// body. The record is stored as a self-contained copy.
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var photo photoapi.Photo
	if err := json.NewDecoder(r.Body).Decode(&photo); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if photo.ID <= 0 {
		http.Error(w, "photo id must be a positive integer", http.StatusBadRequest)
		return
	}

	favorited, err := s.favorites.Toggle(r.Context(), photo)
	if err != nil {
		http.Error(w, "Could not update favorites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Favorited: favorited})
}

// handleCheckFavorite reports membership: GET /api/v1/favorites/check?photo_id=N
func (s *Server) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := parsePhotoID(r.URL.Query().Get("photo_id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	favorited, err := s.favorites.Contains(r.Context(), id)
	if err != nil {
		http.Error(w, "Could not read favorites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Favorited: favorited})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := parsePhotoID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.favorites.Remove(r.Context(), id); err != nil {
		http.Error(w, "Could not update favorites", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearFavorites empties the store. The destructive action must be
// confirmed explicitly with ?confirm=true.
func (s *Server) handleClearFavorites(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "Clearing favorites requires confirm=true", http.StatusBadRequest)
		return
	}

	if err := s.favorites.ClearAll(r.Context()); err != nil {
		http.Error(w, "Could not update favorites", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportFavorites serves the store (or an ids subset) as a
// downloadable favorites.json array.
func (s *Server) handleExportFavorites(w http.ResponseWriter, r *http.Request) {
	sort := feedservice.ParseSort(r.URL.Query().Get("sort"))

	var ids []int64
	if raw := strings.TrimSpace(r.URL.Query().Get("ids")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil || id <= 0 {
				http.Error(w, "ids must be positive integers", http.StatusBadRequest)
				return
			}
			ids = append(ids, id)
		}
	}

	favorites, err := s.favorites.Export(r.Context(), ids, sort)
	if err != nil {
		http.Error(w, "Could not read favorites", http.StatusInternalServerError)
		return
	}
	if favorites == nil {
		favorites = []photoapi.Photo{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="favorites.json"`)
	_ = json.NewEncoder(w).Encode(favorites)
}

type importResponse struct {
	Imported int `json:"imported"`
}

// handleImportFavorites merges a JSON array of photo records. Malformed
// elements are skipped; a malformed top level rejects the whole import.
func (s *Server) handleImportFavorites(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "Could not read import payload", http.StatusBadRequest)
		return
	}

	imported, err := s.favorites.Import(r.Context(), body)
	if err != nil {
		if errors.Is(err, store.ErrMalformedImport) {
			http.Error(w, "Import must be a JSON array of photos", http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not import favorites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: imported})
}
