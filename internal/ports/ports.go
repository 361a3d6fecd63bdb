package ports

import (
	"context"

	"Homefeed/internal/domain"
)

// FeedSource pulls the post list from the remote JSON Feed.
type FeedSource interface {
	FetchPosts(ctx context.Context) ([]domain.Post, error)
}

// IdentityResolver turns a handle into a durable identifier plus the
// service endpoint currently hosting its repository.
type IdentityResolver interface {
	Resolve(ctx context.Context, handle string) (domain.Identity, error)
}

// RecordFetcher reads records from a resolved repository endpoint. Neither
// call retries; failures propagate to the caller, which owns the
// cache-fallback policy.
type RecordFetcher interface {
	ListRecords(ctx context.Context, endpoint, repo, collection string, limit int) ([]domain.RawRecord, error)
	GetRecord(ctx context.Context, endpoint, repo, collection, rkey string) (domain.RawRecord, error)
}

// CheckinNormalizer collapses raw check-in records (either schema version)
// into the unified shape. Records that cannot be normalized are omitted;
// the batch never fails as a whole.
type CheckinNormalizer interface {
	Normalize(ctx context.Context, identity domain.Identity, records []domain.RawRecord) []domain.UnifiedCheckin
}

// RepoMetadataSource fetches code-host metadata for a single repository.
type RepoMetadataSource interface {
	FetchRepo(ctx context.Context, fullName string) (domain.RepoMeta, error)
}

// Aggregator is the single accessor the rendering layer calls. It always
// returns a value; sources that could not be reached degrade to empty.
type Aggregator interface {
	Aggregate(ctx context.Context) domain.AggregateResult
}
