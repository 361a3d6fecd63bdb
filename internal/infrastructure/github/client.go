package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"Homefeed/internal/domain"
	"Homefeed/internal/ports"
)

// Client reads public repository metadata from the code-host API.
type Client struct {
	apiURL string
	client *http.Client
}

var _ ports.RepoMetadataSource = (*Client)(nil)

// NewClient builds a client against the API base URL (no trailing slash).
func NewClient(apiURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{apiURL: strings.TrimSuffix(apiURL, "/"), client: client}
}

// FetchRepo fetches metadata for one repository by owner/name.
func (c *Client) FetchRepo(ctx context.Context, fullName string) (domain.RepoMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/repos/"+fullName, nil)
	if err != nil {
		return domain.RepoMeta{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Homefeed/1.0")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.RepoMeta{}, fmt.Errorf("fetch repo %s: %w", fullName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.RepoMeta{}, fmt.Errorf("repo %s: %s: %s", fullName, resp.Status, strings.TrimSpace(string(payload)))
	}

	var meta domain.RepoMeta
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return domain.RepoMeta{}, fmt.Errorf("decode repo %s: %w", fullName, err)
	}

	return meta, nil
}
