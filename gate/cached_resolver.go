package gate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedResolver wraps a SubjectResolver with TTL-based caching.
// This avoids hitting the database on every authorization check.
type CachedResolver[U comparable] struct {
	inner SubjectResolver[U]
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCachedResolver wraps a resolver with caching.
// ttl is how long subjects are cached before re-fetching.
func NewCachedResolver[U comparable](inner SubjectResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func cacheKey[U comparable](subject U) string {
	return fmt.Sprintf("%v", subject)
}

// Resolve returns the subject record, using the cache when fresh.
// Unknown subjects (nil, nil) are not cached so a freshly provisioned
// user becomes visible immediately.
func (r *CachedResolver[U]) Resolve(ctx context.Context, subject U) (*Subject, error) {
	if v, ok := r.cache.Get(cacheKey(subject)); ok {
		return v.(*Subject), nil
	}
	s, err := r.inner.Resolve(ctx, subject)
	if err != nil {
		return nil, err
	}
	if s != nil {
		r.cache.Set(cacheKey(subject), s, r.ttl)
	}
	return s, nil
}

// Invalidate removes a subject from the cache.
// Call this when a user's role or activation flag changes.
func (r *CachedResolver[U]) Invalidate(subject U) {
	r.cache.Delete(cacheKey(subject))
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver[U]) InvalidateAll() {
	r.cache.Flush()
}
