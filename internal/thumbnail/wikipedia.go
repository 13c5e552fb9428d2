// Package thumbnail looks up article thumbnails via the Wikipedia REST
// summary API. Lookups are best effort and bounded by the client timeout;
// any failure reports absence rather than an error.
package thumbnail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single summary request so a slow provider
// cannot stall visit logging.
const DefaultTimeout = 3 * time.Second

// Client implements domain.ThumbnailProvider against Wikipedia.
type Client struct {
	httpClient *http.Client

	// baseURL overrides the per-language Wikipedia host when non-empty.
	baseURL string
}

// NewClient creates a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// NewClientWithBaseURL creates a Client that talks to a fixed host
// instead of {language}.wikipedia.org. Used in tests.
func NewClientWithBaseURL(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Lookup fetches the summary for the article and returns its thumbnail
// source URL, or found=false when the article has none or the request
// fails in any way.
func (c *Client) Lookup(ctx context.Context, articleTitle, language string) (string, bool) {
	if language == "" {
		language = "en"
	}
	base := c.baseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.wikipedia.org", language)
	}
	endpoint := base + "/api/rest_v1/page/summary/" + url.PathEscape(articleTitle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.Debug("thumbnail request build failed", "title", articleTitle, "error", err)
		return "", false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("thumbnail lookup failed", "title", articleTitle, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var summary struct {
		Thumbnail struct {
			Source string `json:"source"`
		} `json:"thumbnail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		slog.Debug("thumbnail response decode failed", "title", articleTitle, "error", err)
		return "", false
	}
	return summary.Thumbnail.Source, summary.Thumbnail.Source != ""
}
