package photoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to a JSONPlaceholder-style photo API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a photo source client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ListPhotos(ctx context.Context, page, limit int, albumID int64) ([]Photo, error) {
	params := url.Values{}
	params.Set("_page", strconv.Itoa(page))
	params.Set("_limit", strconv.Itoa(limit))
	if albumID > 0 {
		params.Set("albumId", strconv.FormatInt(albumID, 10))
	}

	var photos []Photo
	if err := c.doRequest(ctx, "photos", params, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (c *Client) GetPhoto(ctx context.Context, id int64) (Photo, error) {
	var photo Photo
	err := c.doRequest(ctx, "photos/"+strconv.FormatInt(id, 10), nil, &photo)
	if err != nil {
		return Photo{}, err
	}
	return photo, nil
}

func (c *Client) ListAlbums(ctx context.Context) ([]Album, error) {
	var albums []Album
	if err := c.doRequest(ctx, "albums", nil, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (c *Client) FetchImage(ctx context.Context, imageURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// doRequest performs a GET against the photo source and decodes the JSON
// response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	apiURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
