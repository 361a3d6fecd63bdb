package atproto

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"Homefeed/internal/cache"
	"Homefeed/internal/domain"
	"Homefeed/internal/ports"
)

const didPrefix = "did:"

// Resolver resolves a handle against the directory service. DID and PDS
// lookups are cached under distinct keys; on directory failure the last
// cached value is served, and only a cold cache propagates the error.
type Resolver struct {
	directoryURL string
	client       *http.Client
	store        *cache.Store[string]
	group        singleflight.Group
	logger       *slog.Logger
}

var _ ports.IdentityResolver = (*Resolver)(nil)

// NewResolver wires the directory base URL with an injected cache store.
func NewResolver(directoryURL string, store *cache.Store[string], client *http.Client, logger *slog.Logger) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resolver{
		directoryURL: strings.TrimSuffix(directoryURL, "/"),
		client:       client,
		store:        store,
		logger:       logger,
	}
}

// Resolve returns the full identity for a handle. A missing handle is a
// configuration problem and fails immediately; everything else follows the
// cache-then-directory-then-stale chain.
func (r *Resolver) Resolve(ctx context.Context, handle string) (domain.Identity, error) {
	if handle == "" {
		return domain.Identity{}, fmt.Errorf("no handle configured")
	}

	did, err := r.resolveDID(ctx, handle)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("resolve did for %s: %w", handle, err)
	}

	endpoint, err := r.resolvePDS(ctx, handle)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("resolve pds for %s: %w", handle, err)
	}

	return domain.Identity{Handle: handle, DID: did, ServiceEndpoint: endpoint}, nil
}

// resolveDID short-circuits when the handle already is a durable
// identifier; no directory call happens in that case.
func (r *Resolver) resolveDID(ctx context.Context, handle string) (string, error) {
	if strings.HasPrefix(handle, didPrefix) {
		return handle, nil
	}
	return r.lookup(ctx, "did:"+handle, handle, "did")
}

func (r *Resolver) resolvePDS(ctx context.Context, handle string) (string, error) {
	return r.lookup(ctx, "pds:"+handle, handle, "pds")
}

// lookup implements the shared sub-lookup policy: fresh cache hit wins,
// then a deduplicated directory call, then the stale cached value.
func (r *Resolver) lookup(ctx context.Context, key, handle, field string) (string, error) {
	if v, fresh := r.store.Get(key); fresh {
		return v, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		value, err := r.queryDirectory(ctx, handle, field)
		if err != nil {
			return "", err
		}
		r.store.Set(key, value)
		return value, nil
	})
	if err != nil {
		if stale, ok := r.store.GetStale(key); ok {
			r.warn("directory lookup failed, serving stale value", "key", key, "error", err)
			return stale, nil
		}
		return "", err
	}

	return v.(string), nil
}

// queryDirectory performs one directory call and extracts the requested
// field. A 200 response lacking the field is a failure, not an empty value.
func (r *Resolver) queryDirectory(ctx context.Context, handle, field string) (string, error) {
	endpoint := r.directoryURL + "/resolve?identifier=" + url.QueryEscape(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Homefeed/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("query directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("directory returned %s", resp.Status)
	}

	var doc struct {
		DID string `json:"did"`
		PDS string `json:"pds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode directory response: %w", err)
	}

	var value string
	switch field {
	case "did":
		value = doc.DID
	case "pds":
		value = doc.PDS
	}
	if value == "" {
		return "", fmt.Errorf("directory response for %s is missing %s", handle, field)
	}

	return value, nil
}

func (r *Resolver) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
