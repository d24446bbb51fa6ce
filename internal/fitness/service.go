package fitness

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/repforge/repforge/internal/cache"
	"github.com/repforge/repforge/internal/store"
)

// Service exposes the analytics engine over a record store. It holds no
// mutable state of its own: every calculation recomputes from the current
// store contents, optionally memoized until the next write.
type Service struct {
	store  *store.Store
	logger *slog.Logger
	cache  *cache.Cache
	rng    *rand.Rand
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache memoizes derived results until the next store write.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRand fixes the random source used by template generation.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithClock fixes the time source used by date-relative calculations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the analytics service.
func NewService(st *store.Store, logger *slog.Logger, opts ...Option) Service {
	s := Service{
		store:  st,
		logger: logger,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// memoized returns the cached result for key at the current store generation,
// computing and storing it on a miss. Any write to the store changes the
// generation and so orphans every previously cached entry.
func memoized[T any](ctx context.Context, s Service, key string, compute func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return compute(ctx)
	}
	fullKey := fmt.Sprintf("%s@g%d", key, s.store.Generation())
	var value T
	if s.cache.Get(ctx, fullKey, &value) {
		return value, nil
	}
	value, err := compute(ctx)
	if err != nil {
		return value, err
	}
	s.cache.Set(ctx, fullKey, value)
	return value, nil
}
