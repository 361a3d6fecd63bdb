package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"Homefeed/internal/cache"
	"Homefeed/internal/checkin"
	"Homefeed/internal/domain"
	"Homefeed/internal/ports"
)

// BookCollection is the fixed collection holding reading-status records.
const BookCollection = "buzz.bookhive.book"

const (
	topPosts      = 3
	topBooks      = 3
	bookListLimit = 10
	checkinLimit  = 6
)

// AggregatorDeps wires all driven adapters into the orchestrator.
type AggregatorDeps struct {
	Feed        ports.FeedSource
	Resolver    ports.IdentityResolver
	Records     ports.RecordFetcher
	Checkins    ports.CheckinNormalizer
	Repos       ports.RepoMetadataSource
	Handle      string
	PinnedRepos []string
	CacheTTL    time.Duration
	Logger      *slog.Logger
}

// Aggregator runs the three source pipelines concurrently, each wrapped in
// its own cache entry with independent failure handling, and assembles the
// result the rendering layer consumes. It owns every cache instance.
type Aggregator struct {
	feed        ports.FeedSource
	resolver    ports.IdentityResolver
	records     ports.RecordFetcher
	checkins    ports.CheckinNormalizer
	repos       ports.RepoMetadataSource
	handle      string
	pinnedRepos []string
	logger      *slog.Logger

	postCache    *cache.Store[[]domain.Post]
	bookCache    *cache.Store[[]domain.Book]
	checkinCache *cache.Store[[]domain.UnifiedCheckin]
	repoCache    *cache.Store[[]domain.RepoMeta]
}

var _ ports.Aggregator = (*Aggregator)(nil)

// NewAggregator constructs the orchestrator and its caches.
func NewAggregator(deps AggregatorDeps) *Aggregator {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Aggregator{
		feed:         deps.Feed,
		resolver:     deps.Resolver,
		records:      deps.Records,
		checkins:     deps.Checkins,
		repos:        deps.Repos,
		handle:       deps.Handle,
		pinnedRepos:  deps.PinnedRepos,
		logger:       deps.Logger,
		postCache:    cache.New[[]domain.Post](ttl),
		bookCache:    cache.New[[]domain.Book](ttl),
		checkinCache: cache.New[[]domain.UnifiedCheckin](ttl),
		repoCache:    cache.New[[]domain.RepoMeta](ttl),
	}
}

// Aggregate runs all pipelines and waits for each to settle. No pipeline's
// failure blocks or aborts another; a failed source shows up as an empty
// field, never as an error.
func (a *Aggregator) Aggregate(ctx context.Context) domain.AggregateResult {
	var result domain.AggregateResult

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		result.Posts = a.feedPipeline(ctx)
	}()
	go func() {
		defer wg.Done()
		result.Books, result.Checkins, result.PDSURL = a.repositoryPipeline(ctx)
	}()
	go func() {
		defer wg.Done()
		result.PinnedRepos = a.codeHostPipeline(ctx)
	}()
	wg.Wait()

	if result.Posts == nil {
		result.Posts = []domain.Post{}
	}
	if result.Books == nil {
		result.Books = []domain.Book{}
	}
	if result.Checkins == nil {
		result.Checkins = []domain.UnifiedCheckin{}
	}
	if result.PinnedRepos == nil {
		result.PinnedRepos = []domain.RepoMeta{}
	}
	return result
}

// feedPipeline fetches the post list, newest first, top three.
func (a *Aggregator) feedPipeline(ctx context.Context) []domain.Post {
	return refresh(a.postCache, "feed:posts", a.logger, func() ([]domain.Post, error) {
		posts, err := a.feed.FetchPosts(ctx)
		if err != nil {
			return nil, err
		}
		sortPostsByModified(posts)
		if len(posts) > topPosts {
			posts = posts[:topPosts]
		}
		return posts, nil
	})
}

// repositoryPipeline resolves identity, then lists and (for check-ins)
// normalizes records. Books and check-ins are cached under separate keys so
// one collection going bad does not stale the other.
func (a *Aggregator) repositoryPipeline(ctx context.Context) ([]domain.Book, []domain.UnifiedCheckin, string) {
	books := refresh(a.bookCache, "records:"+a.handle+":books", a.logger, func() ([]domain.Book, error) {
		identity, err := a.resolver.Resolve(ctx, a.handle)
		if err != nil {
			return nil, err
		}
		records, err := a.records.ListRecords(ctx, identity.ServiceEndpoint, identity.DID, BookCollection, bookListLimit)
		if err != nil {
			return nil, err
		}
		return decodeBooks(records, topBooks), nil
	})

	checkins := refresh(a.checkinCache, "records:"+a.handle+":checkins", a.logger, func() ([]domain.UnifiedCheckin, error) {
		identity, err := a.resolver.Resolve(ctx, a.handle)
		if err != nil {
			return nil, err
		}
		records, err := a.records.ListRecords(ctx, identity.ServiceEndpoint, identity.DID, checkin.Collection, checkinLimit)
		if err != nil {
			return nil, err
		}
		return a.checkins.Normalize(ctx, identity, records), nil
	})

	var pdsURL string
	if identity, err := a.resolver.Resolve(ctx, a.handle); err == nil {
		pdsURL = identity.ServiceEndpoint
	} else {
		a.warn("identity unavailable", "handle", a.handle, "error", err)
	}

	return books, checkins, pdsURL
}

// codeHostPipeline fetches metadata for each pinned repository
// independently and concurrently. A repo that fails is omitted; the batch
// only counts as failed when nothing could be fetched at all.
func (a *Aggregator) codeHostPipeline(ctx context.Context) []domain.RepoMeta {
	return refresh(a.repoCache, "github:pinned", a.logger, func() ([]domain.RepoMeta, error) {
		if len(a.pinnedRepos) == 0 {
			return []domain.RepoMeta{}, nil
		}

		fetched := make([]*domain.RepoMeta, len(a.pinnedRepos))
		g, gctx := errgroup.WithContext(ctx)
		for i, fullName := range a.pinnedRepos {
			i, fullName := i, fullName
			g.Go(func() error {
				meta, err := a.repos.FetchRepo(gctx, fullName)
				if err != nil {
					a.warn("skipping pinned repo", "repo", fullName, "error", err)
					return nil
				}
				fetched[i] = &meta
				return nil
			})
		}
		_ = g.Wait()

		metas := make([]domain.RepoMeta, 0, len(fetched))
		for _, meta := range fetched {
			if meta != nil {
				metas = append(metas, *meta)
			}
		}
		if len(metas) == 0 {
			return nil, fmt.Errorf("no pinned repo metadata could be fetched")
		}
		return metas, nil
	})
}

// refresh implements the shared cache policy: fresh hit wins, then a live
// fetch, then the stale value, then empty.
func refresh[T any](store *cache.Store[T], key string, logger *slog.Logger, fetch func() (T, error)) T {
	if v, fresh := store.Get(key); fresh {
		return v
	}

	v, err := fetch()
	if err == nil {
		store.Set(key, v)
		return v
	}

	if stale, ok := store.GetStale(key); ok {
		if logger != nil {
			logger.Warn("fetch failed, serving stale cache entry", "key", key, "error", err)
		}
		return stale
	}

	if logger != nil {
		logger.Warn("source unavailable, degrading to empty", "key", key, "error", err)
	}
	var zero T
	return zero
}

func decodeBooks(records []domain.RawRecord, limit int) []domain.Book {
	books := make([]domain.Book, 0, limit)
	for _, record := range records {
		if len(books) == limit {
			break
		}
		book := domain.Book{URI: record.URI, CID: record.CID}
		if err := decodeBookValue(record, &book); err != nil {
			continue
		}
		books = append(books, book)
	}
	return books
}

func decodeBookValue(record domain.RawRecord, book *domain.Book) error {
	return json.Unmarshal(record.Value, &book.Value)
}

func sortPostsByModified(posts []domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, iOK := parseFeedTime(posts[i].DateModified)
		tj, jOK := parseFeedTime(posts[j].DateModified)
		if iOK && jOK {
			return ti.After(tj)
		}
		return posts[i].DateModified > posts[j].DateModified
	})
}

func parseFeedTime(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
