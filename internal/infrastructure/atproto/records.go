package atproto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Homefeed/internal/domain"
	"Homefeed/internal/ports"
)

// RecordClient is a thin wrapper over the repository protocol of a
// resolved endpoint. It does not retry; callers own the fallback policy.
type RecordClient struct {
	client *http.Client
}

var _ ports.RecordFetcher = (*RecordClient)(nil)

// NewRecordClient creates a reusable fetcher.
func NewRecordClient(client *http.Client) *RecordClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RecordClient{client: client}
}

// ListRecords lists up to limit records of a collection. Ordering is
// whatever the upstream collection returns (most-recent-first there).
func (c *RecordClient) ListRecords(ctx context.Context, endpoint, repo, collection string, limit int) ([]domain.RawRecord, error) {
	query := url.Values{}
	query.Set("repo", repo)
	query.Set("collection", collection)
	query.Set("limit", strconv.Itoa(limit))

	var payload struct {
		Records []domain.RawRecord `json:"records"`
	}
	if err := c.getJSON(ctx, endpoint, "com.atproto.repo.listRecords", query, &payload); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	records := payload.Records
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// GetRecord fetches a single record by key.
func (c *RecordClient) GetRecord(ctx context.Context, endpoint, repo, collection, rkey string) (domain.RawRecord, error) {
	query := url.Values{}
	query.Set("repo", repo)
	query.Set("collection", collection)
	query.Set("rkey", rkey)

	var record domain.RawRecord
	if err := c.getJSON(ctx, endpoint, "com.atproto.repo.getRecord", query, &record); err != nil {
		return domain.RawRecord{}, fmt.Errorf("get %s/%s: %w", collection, rkey, err)
	}
	return record, nil
}

func (c *RecordClient) getJSON(ctx context.Context, endpoint, method string, query url.Values, v any) error {
	u := strings.TrimSuffix(endpoint, "/") + "/xrpc/" + method + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Homefeed/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("endpoint returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
