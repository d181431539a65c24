package httpapi

import (
	"encoding/json"
	"net/http"

	"photogallery/internal/feedservice"
)

// handleFeedSnapshot returns the current feed view without advancing.
func (s *Server) handleFeedSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.feed.Snapshot())
}

// handleFeedNext is the sentinel-triggered advance: loads the next page if
// the feed is idle and not exhausted, otherwise returns the unchanged state.
func (s *Server) handleFeedNext(w http.ResponseWriter, r *http.Request) {
	snap, err := s.feed.LoadNext(r.Context())
	if err != nil {
		// The snapshot carries the error state; the client shows a retry
		// prompt and nothing already loaded is discarded.
		writeJSON(w, http.StatusBadGateway, snap)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type feedResetRequest struct {
	Search  string `json:"search"`
	AlbumID int64  `json:"albumId"`
	Sort    string `json:"sort"`
}

// handleFeedReset applies a new filter, dropping accumulated results and
// returning to page one.
func (s *Server) handleFeedReset(w http.ResponseWriter, r *http.Request) {
	var req feedResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.AlbumID < 0 {
		http.Error(w, "albumId must not be negative", http.StatusBadRequest)
		return
	}

	snap := s.feed.Reset(feedservice.Query{
		Search:  req.Search,
		AlbumID: req.AlbumID,
		Sort:    feedservice.ParseSort(req.Sort),
	})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleFeedRetry(w http.ResponseWriter, r *http.Request) {
	snap, err := s.feed.Retry(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, snap)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
