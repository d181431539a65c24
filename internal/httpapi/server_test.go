package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photogallery/internal/app/photos"
	"photogallery/internal/feedservice"
	"photogallery/internal/photoapi"
	"photogallery/internal/store"
)

type stubPhotoService struct {
	photo    photoapi.Photo
	getErr   error
	getCalls int

	albums    []photoapi.Album
	albumsErr error

	browseItems   []photoapi.Photo
	browseHasMore bool
	browseErr     error
	lastPage      int
	lastQuery     feedservice.Query

	download    photos.Download
	downloadErr error
}

func (s *stubPhotoService) Get(ctx context.Context, id int64) (photoapi.Photo, error) {
	s.getCalls++
	if s.getErr != nil {
		return photoapi.Photo{}, s.getErr
	}
	return s.photo, nil
}

func (s *stubPhotoService) Albums(ctx context.Context) ([]photoapi.Album, error) {
	if s.albumsErr != nil {
		return nil, s.albumsErr
	}
	return s.albums, nil
}

func (s *stubPhotoService) Browse(ctx context.Context, page int, query feedservice.Query) ([]photoapi.Photo, bool, error) {
	s.lastPage = page
	s.lastQuery = query
	if s.browseErr != nil {
		return nil, false, s.browseErr
	}
	return s.browseItems, s.browseHasMore, nil
}

func (s *stubPhotoService) Download(ctx context.Context, id int64) (photos.Download, error) {
	if s.downloadErr != nil {
		return photos.Download{}, s.downloadErr
	}
	return s.download, nil
}

type stubFavoritesService struct {
	toggled   bool
	toggleErr error

	removeErr  error
	clearErr   error
	clearCalls int

	list    []photoapi.Photo
	listErr error

	exported  []photoapi.Photo
	exportErr error
	lastIDs   []int64
	lastSort  feedservice.Sort

	imported  int
	importErr error

	contains bool
}

func (s *stubFavoritesService) Toggle(ctx context.Context, photo photoapi.Photo) (bool, error) {
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	return s.toggled, nil
}

func (s *stubFavoritesService) Remove(ctx context.Context, id int64) error { return s.removeErr }

func (s *stubFavoritesService) ClearAll(ctx context.Context) error {
	s.clearCalls++
	return s.clearErr
}

func (s *stubFavoritesService) List(ctx context.Context, sort feedservice.Sort) ([]photoapi.Photo, error) {
	s.lastSort = sort
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.list, nil
}

func (s *stubFavoritesService) Export(ctx context.Context, ids []int64, sort feedservice.Sort) ([]photoapi.Photo, error) {
	s.lastIDs = ids
	s.lastSort = sort
	if s.exportErr != nil {
		return nil, s.exportErr
	}
	return s.exported, nil
}

func (s *stubFavoritesService) Import(ctx context.Context, data []byte) (int, error) {
	if s.importErr != nil {
		return 0, s.importErr
	}
	return s.imported, nil
}

func (s *stubFavoritesService) Contains(ctx context.Context, id int64) (bool, error) {
	return s.contains, nil
}

type stubFeedService struct {
	snap      feedservice.Snapshot
	nextErr   error
	lastReset feedservice.Query
}

func (s *stubFeedService) Reset(query feedservice.Query) feedservice.Snapshot {
	s.lastReset = query
	return s.snap
}

func (s *stubFeedService) LoadNext(ctx context.Context) (feedservice.Snapshot, error) {
	return s.snap, s.nextErr
}

func (s *stubFeedService) Retry(ctx context.Context) (feedservice.Snapshot, error) {
	return s.snap, s.nextErr
}

func (s *stubFeedService) Snapshot() feedservice.Snapshot { return s.snap }

type stubSigner struct {
	token     string
	signErr   error
	photoID   int64
	verifyErr error
}

func (s *stubSigner) Sign(photoID int64) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return s.token, nil
}

func (s *stubSigner) Verify(token string) (int64, error) {
	if s.verifyErr != nil {
		return 0, s.verifyErr
	}
	return s.photoID, nil
}

type testServer struct {
	photos    *stubPhotoService
	favorites *stubFavoritesService
	feed      *stubFeedService
	signer    *stubSigner
	handler   http.Handler
}

func newTestServer() *testServer {
	ts := &testServer{
		photos:    &stubPhotoService{},
		favorites: &stubFavoritesService{},
		feed:      &stubFeedService{},
		signer:    &stubSigner{token: "tok"},
	}
	ts.handler = New(ts.photos, ts.favorites, ts.feed, ts.signer).Routes()
	return ts
}

func (ts *testServer) do(method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetPhotoInvalidIDShortCircuits(t *testing.T) {
	tests := []string{"abc", "-1", "0", "1.5"}

	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			ts := newTestServer()

			rec := ts.do(http.MethodGet, "/api/v1/photos/"+id, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if ts.photos.getCalls != 0 {
				t.Fatalf("invalid id must not trigger a fetch")
			}
		})
	}
}

func TestGetPhoto(t *testing.T) {
	ts := newTestServer()
	ts.photos.photo = photoapi.Photo{ID: 12, AlbumID: 1, Title: "twelve", URL: "u", ThumbnailURL: "tu"}

	rec := ts.do(http.MethodGet, "/api/v1/photos/12", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got photoapi.Photo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 12 || got.Title != "twelve" {
		t.Fatalf("unexpected photo: %+v", got)
	}
}

func TestGetPhotoErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: photoapi.ErrNotFound, want: http.StatusNotFound},
		{name: "source down", err: &photoapi.StatusError{StatusCode: 500, Status: "500"}, want: http.StatusBadGateway},
		{name: "network failure", err: errors.New("dial tcp: refused"), want: http.StatusBadGateway},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer()
			ts.photos.getErr = tc.err

			rec := ts.do(http.MethodGet, "/api/v1/photos/5", nil)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestBrowsePhotosPassesQuery(t *testing.T) {
	ts := newTestServer()
	ts.photos.browseItems = []photoapi.Photo{{ID: 1}}
	ts.photos.browseHasMore = true

	rec := ts.do(http.MethodGet, "/api/v1/photos?page=2&q=ca&album_id=5&sort=idAsc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if ts.photos.lastPage != 2 {
		t.Fatalf("expected page 2, got %d", ts.photos.lastPage)
	}
	want := feedservice.Query{Search: "ca", AlbumID: 5, Sort: feedservice.SortOldest}
	if ts.photos.lastQuery != want {
		t.Fatalf("unexpected query: %+v", ts.photos.lastQuery)
	}

	var resp browseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.HasMore || resp.Page != 2 || len(resp.Items) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBrowsePhotosRejectsBadParams(t *testing.T) {
	tests := []string{
		"/api/v1/photos?page=0",
		"/api/v1/photos?page=x",
		"/api/v1/photos?album_id=-2",
		"/api/v1/photos?album_id=abc",
	}

	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			ts := newTestServer()
			rec := ts.do(http.MethodGet, target, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestToggleFavorite(t *testing.T) {
	ts := newTestServer()
	ts.favorites.toggled = true

	body := bytes.NewBufferString(`{"id": 3, "albumId": 1, "title": "t", "url": "u", "thumbnailUrl": "tu"}`)
	rec := ts.do(http.MethodPost, "/api/v1/favorites/toggle", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp toggleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Favorited {
		t.Fatalf("expected favorited=true")
	}
}

func TestToggleFavoriteRejectsBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `not json`},
		{name: "missing id", body: `{"title": "t"}`},
		{name: "negative id", body: `{"id": -1}`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer()
			rec := ts.do(http.MethodPost, "/api/v1/favorites/toggle", strings.NewReader(tc.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCheckFavorite(t *testing.T) {
	ts := newTestServer()
	ts.favorites.contains = true

	rec := ts.do(http.MethodGet, "/api/v1/favorites/check?photo_id=9", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp toggleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Favorited {
		t.Fatalf("expected favorited=true")
	}

	rec = ts.do(http.MethodGet, "/api/v1/favorites/check?photo_id=nope", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad photo_id, got %d", rec.Code)
	}
}

func TestRemoveFavorite(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodDelete, "/api/v1/favorites/4", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestClearFavoritesRequiresConfirmation(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodDelete, "/api/v1/favorites", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirm, got %d", rec.Code)
	}
	if ts.favorites.clearCalls != 0 {
		t.Fatalf("clear must not run without confirmation")
	}

	rec = ts.do(http.MethodDelete, "/api/v1/favorites?confirm=true", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if ts.favorites.clearCalls != 1 {
		t.Fatalf("expected clear to run once, got %d", ts.favorites.clearCalls)
	}
}

func TestExportFavoritesDownload(t *testing.T) {
	ts := newTestServer()
	ts.favorites.exported = []photoapi.Photo{{ID: 2, Title: "two"}, {ID: 1, Title: "one"}}

	rec := ts.do(http.MethodGet, "/api/v1/favorites/export?ids=2,1&sort=idDesc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="favorites.json"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}

	var exported []photoapi.Photo
	if err := json.NewDecoder(rec.Body).Decode(&exported); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(exported))
	}
	if len(ts.favorites.lastIDs) != 2 || ts.favorites.lastIDs[0] != 2 {
		t.Fatalf("unexpected ids subset: %+v", ts.favorites.lastIDs)
	}
}

func TestImportFavorites(t *testing.T) {
	ts := newTestServer()
	ts.favorites.imported = 3

	rec := ts.do(http.MethodPost, "/api/v1/favorites/import", strings.NewReader(`[]`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp importResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Imported != 3 {
		t.Fatalf("expected 3 imported, got %d", resp.Imported)
	}
}

func TestImportFavoritesMalformed(t *testing.T) {
	ts := newTestServer()
	ts.favorites.importErr = fmt.Errorf("%w: oops", store.ErrMalformedImport)

	rec := ts.do(http.MethodPost, "/api/v1/favorites/import", strings.NewReader(`not json`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFeedNextSurfacesErrorState(t *testing.T) {
	ts := newTestServer()
	ts.feed.snap = feedservice.Snapshot{State: feedservice.StateError, Error: "connection refused", HasMore: true}
	ts.feed.nextErr = errors.New("connection refused")

	rec := ts.do(http.MethodPost, "/api/v1/feed/next", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var snap feedservice.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.State != feedservice.StateError || snap.Error == "" {
		t.Fatalf("expected error snapshot, got %+v", snap)
	}
}

func TestFeedReset(t *testing.T) {
	ts := newTestServer()

	body := strings.NewReader(`{"search": "sunset", "albumId": 4, "sort": "title"}`)
	rec := ts.do(http.MethodPost, "/api/v1/feed/reset", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	want := feedservice.Query{Search: "sunset", AlbumID: 4, Sort: feedservice.SortTitle}
	if ts.feed.lastReset != want {
		t.Fatalf("unexpected reset query: %+v", ts.feed.lastReset)
	}
}

func TestSharePhoto(t *testing.T) {
	ts := newTestServer()
	ts.photos.photo = photoapi.Photo{ID: 5}
	ts.signer.token = "signed-token"

	rec := ts.do(http.MethodPost, "/api/v1/photos/5/share", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp shareResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token != "signed-token" || resp.URL != "/api/v1/shared/signed-token" {
		t.Fatalf("unexpected share response: %+v", resp)
	}
}

func TestResolveSharedInvalidToken(t *testing.T) {
	ts := newTestServer()
	ts.signer.verifyErr = errors.New("share: invalid token")

	rec := ts.do(http.MethodGet, "/api/v1/shared/bad-token", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDownloadPhoto(t *testing.T) {
	ts := newTestServer()
	ts.photos.download = photos.Download{
		Body:        io.NopCloser(strings.NewReader("png-bytes")),
		ContentType: "image/png",
		Filename:    "photo-5.png",
	}

	rec := ts.do(http.MethodGet, "/api/v1/photos/5/download", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="photo-5.png"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if rec.Body.String() != "png-bytes" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
