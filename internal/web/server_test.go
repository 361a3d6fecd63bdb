package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Homefeed/internal/domain"
	"Homefeed/internal/logging"
)

type fakeAggregator struct {
	result domain.AggregateResult
}

func (f *fakeAggregator) Aggregate(ctx context.Context) domain.AggregateResult {
	return f.result
}

func testResult() domain.AggregateResult {
	return domain.AggregateResult{
		Posts: []domain.Post{
			{ID: "1", Title: "Hello World", URL: "https://example.org/1", DateModified: "2024-03-01T10:00:00Z", Summary: "greetings"},
		},
		Books: []domain.Book{
			{
				URI: "at://did:plc:abc/buzz.bookhive.book/b1",
				Value: domain.BookValue{
					Title:  "The Dispossessed",
					Status: "buzz.bookhive.defs#reading",
					Cover:  &domain.BlobRef{Ref: json.RawMessage(`{"$link":"bafyrei"}`)},
				},
			},
		},
		Checkins: []domain.UnifiedCheckin{
			{
				Record:      domain.RawRecord{URI: "at://did:plc:abc/app.dropanchor.checkin/c1"},
				Text:        "Coffee stop",
				CreatedAt:   "2024-05-01T09:00:00Z",
				Address:     domain.Address{Name: "Cafe", Locality: "Delft", Country: "NL"},
				Coordinates: domain.Coordinates{Latitude: 52, Longitude: 4.3},
			},
		},
		PDSURL:      "https://pds.example",
		PinnedRepos: []domain.RepoMeta{{Name: "Anchor", FullName: "dropanchorapp/Anchor", HTMLURL: "https://github.com/dropanchorapp/Anchor"}},
	}
}

func newTestServer(t *testing.T, result domain.AggregateResult) *httptest.Server {
	t.Helper()
	s := NewServer(&fakeAggregator{result: result}, logging.New("error"))
	server := httptest.NewServer(s.Router())
	t.Cleanup(server.Close)
	return server
}

func TestIndexRendersAggregatedSections(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, testResult())
	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	html := string(raw)

	for _, want := range []string{
		"Hello World",
		"Coffee stop",
		"https://dropanchor.app/checkin/c1",
		"Cafe, Delft, NL",
		"The Dispossessed",
		"Reading",
		"https://github.com/dropanchorapp/Anchor",
		"com.atproto.sync.getBlob",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexWithEmptyAggregate(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, domain.AggregateResult{
		Posts:       []domain.Post{},
		Books:       []domain.Book{},
		Checkins:    []domain.UnifiedCheckin{},
		PinnedRepos: []domain.RepoMeta{},
	})

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fully degraded aggregate must still render, got %s", resp.Status)
	}
}

func TestAggregateJSON(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, testResult())
	resp, err := http.Get(server.URL + "/api/aggregate")
	if err != nil {
		t.Fatalf("GET /api/aggregate: %v", err)
	}
	defer resp.Body.Close()

	var result domain.AggregateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Posts) != 1 || result.Posts[0].Title != "Hello World" {
		t.Fatalf("unexpected posts: %+v", result.Posts)
	}
	if result.PDSURL != "https://pds.example" {
		t.Fatalf("unexpected pds url: %q", result.PDSURL)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, domain.AggregateResult{})
	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %s", resp.Status)
	}
}
