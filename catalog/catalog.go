package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrRejected marks an application-level rejection by the catalog, as
// opposed to a transport failure.
var ErrRejected = errors.New("catalog rejected the song")

// Song is the registration payload. Field names follow the catalog API.
type Song struct {
	Title           string `json:"title"`
	ID              string `json:"id"`
	DurationSeconds int    `json:"duration"`
	Artist          string `json:"artist"`
	SongURL         string `json:"songURL"`
	CoverURL        string `json:"coverURL"`
}

// Client talks to the remote song catalog.
type Client interface {
	// Exists reports whether a song with this video id is already
	// registered. A transport failure or non-success response is an error,
	// never a silent "does not exist".
	Exists(ctx context.Context, id, title string) (bool, error)
	// Register submits the song. It returns false when the catalog
	// answered but declined the record.
	Register(ctx context.Context, song Song) (bool, error)
}

// HTTPClient implements Client against the catalog's two JSON verbs.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) Exists(ctx context.Context, id, title string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	err := c.post(ctx, "/checkSongExistsByYtId", map[string]string{
		"id":    id,
		"title": title,
	}, &out)
	if err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *HTTPClient) Register(ctx context.Context, song Song) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/addSong", song, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}
