package playersync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/colefield/airwave/internal/nowplaying"
)

// FetchResult is one now-playing poll response. Playing is nil when the
// channel is off air, which is a successful result.
type FetchResult struct {
	Playing      *nowplaying.NowPlaying `json:"now_playing,omitempty"`
	ServerTimeMs int64                  `json:"server_time_ms"`
}

// Fetcher polls a channel's now-playing state
type Fetcher interface {
	FetchNow(ctx context.Context, channelID string) (*FetchResult, error)
}

// HTTPFetcher polls the now-playing endpoint over HTTP
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for the given API base URL, e.g.
// "http://localhost:8080". A nil client gets a default with a short timeout.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// FetchNow polls GET /api/channels/:id/now
func (f *HTTPFetcher) FetchNow(ctx context.Context, channelID string) (*FetchResult, error) {
	endpoint := fmt.Sprintf("%s/api/channels/%s/now", f.baseURL, url.PathEscape(channelID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build now-playing request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch now playing: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("now-playing request returned status %d", resp.StatusCode)
	}

	var result FetchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode now-playing response: %w", err)
	}

	return &result, nil
}
