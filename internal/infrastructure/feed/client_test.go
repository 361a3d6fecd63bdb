package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchPosts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"id": "1",
					"title": "With summary",
					"content_html": "<p>ignored</p>",
					"url": "https://example.org/1",
					"date_modified": "2024-03-01T10:00:00Z",
					"summary": "hand-written summary"
				},
				{
					"id": "2",
					"title": "Without summary",
					"content_html": "<p>First paragraph, <em>with emphasis</em>.</p>",
					"url": "https://example.org/2",
					"date_modified": "2024-02-01T10:00:00Z"
				}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, server.Client())
	posts, err := c.FetchPosts(context.Background())
	if err != nil {
		t.Fatalf("FetchPosts error: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Summary != "hand-written summary" {
		t.Fatalf("existing summary must be kept, got %q", posts[0].Summary)
	}
	if posts[1].Summary != "First paragraph, with emphasis." {
		t.Fatalf("unexpected extracted excerpt: %q", posts[1].Summary)
	}
}

func TestFetchPostsUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, server.Client())
	if _, err := c.FetchPosts(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestExcerptTruncation(t *testing.T) {
	t.Parallel()

	long := "<p>" + strings.Repeat("woord ", 60) + "</p>"
	got := excerpt(long)
	if len([]rune(got)) > maxExcerptRunes+1 {
		t.Fatalf("excerpt too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated excerpt should end with ellipsis, got %q", got)
	}
}

func TestExcerptEmptyContent(t *testing.T) {
	t.Parallel()

	if got := excerpt(""); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
}
