package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"hackathon-portal/internal/catalog"
	"hackathon-portal/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the problem catalog from a backing store.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.Problem, error)
}

// CatalogRepository caches the catalog with TTL to avoid repeated DB hits.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Problem
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) ([]domain.Problem, error) {
	now := r.clock()

	r.mu.RLock()
	if r.cached != nil && r.expiresAt.After(now) {
		problems := r.cached
		r.mu.RUnlock()
		return problems, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cached != nil && r.expiresAt.After(now) {
			problems := r.cached
			r.mu.RUnlock()
			return problems, nil
		}
		r.mu.RUnlock()

		problems, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = problems
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return problems, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Problem), nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader serves a built-in variant catalog.
type StaticCatalogLoader struct {
	problems []domain.Problem
}

func NewStaticCatalogLoader(variant catalog.Variant) (*StaticCatalogLoader, error) {
	problems, ok := catalog.Builtin(variant)
	if !ok {
		return nil, domain.ErrCatalogNotFound
	}
	return &StaticCatalogLoader{problems: problems}, nil
}

// NewFixedCatalogLoader wraps an explicit problem list (useful for tests).
func NewFixedCatalogLoader(problems []domain.Problem) *StaticCatalogLoader {
	return &StaticCatalogLoader{problems: problems}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) ([]domain.Problem, error) {
	return l.problems, nil
}
