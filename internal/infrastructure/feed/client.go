package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"Homefeed/internal/domain"
	"Homefeed/internal/ports"
)

const maxExcerptRunes = 200

// Client reads the site's JSON Feed.
type Client struct {
	feedURL string
	client  *http.Client
}

var _ ports.FeedSource = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets a 10s timeout default.
func NewClient(feedURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{feedURL: feedURL, client: client}
}

// FetchPosts downloads and decodes the feed. Posts without a summary get a
// plain-text excerpt extracted from their HTML content.
func (c *Client) FetchPosts(ctx context.Context) ([]domain.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Homefeed/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	var payload struct {
		Items []domain.Post `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	for i := range payload.Items {
		if payload.Items[i].Summary == "" {
			payload.Items[i].Summary = excerpt(payload.Items[i].ContentHTML)
		}
	}

	return payload.Items, nil
}

// excerpt strips markup from the post body and collapses whitespace,
// truncating on a rune boundary.
func excerpt(contentHTML string) string {
	if contentHTML == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if len(runes) <= maxExcerptRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:maxExcerptRunes])) + "…"
}
