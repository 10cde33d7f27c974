package recommender

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/paintstore/internal/monitoring"
	apperrors "github.com/charlesng35/paintstore/pkg/errors"
	"github.com/charlesng35/paintstore/pkg/logger"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	EndpointPopular = "popular"
	EndpointSimilar = "similar"
)

// Service answers recommendation queries. Without caching every query reads
// the orders source. With caching queries use the latest index built by
// Refresh, building one on demand the first time.
type Service struct {
	source  OrderSource
	cached  bool
	log     *zap.Logger
	now     func() time.Time
	current atomic.Pointer[Index]

	// serializes rebuilds so concurrent first queries share one load
	refreshMu sync.Mutex
}

// Option customises the Service.
type Option func(*Service)

// WithCaching makes queries read the cached index instead of the source.
func WithCaching(enabled bool) Option {
	return func(s *Service) {
		s.cached = enabled
	}
}

// WithLogger overrides the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithNow overrides the clock stamped on built indexes.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service reading orders from source.
func NewService(source OrderSource, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, errors.New("recommender: order source is required")
	}

	svc := &Service{
		source: source,
		log:    logger.WithModule("recommender"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Popular returns up to limit product keys ordered by how often they were
// ordered.
func (s *Service) Popular(ctx context.Context, limit int) ([]string, error) {
	if err := checkLimit("limit", limit); err != nil {
		monitoring.RecordRecommendation(EndpointPopular, monitoring.ResultFailure)
		return nil, err
	}

	index, err := s.index(ctx)
	if err != nil {
		monitoring.RecordRecommendation(EndpointPopular, monitoring.ResultFailure)
		return nil, err
	}

	monitoring.RecordRecommendation(EndpointPopular, monitoring.ResultSuccess)
	return index.Popular(limit), nil
}

// Similar returns up to k products most often bought together with
// productID. Unknown products have no neighbours.
func (s *Service) Similar(ctx context.Context, productID string, k int) ([]string, error) {
	if err := checkLimit("k", k); err != nil {
		monitoring.RecordRecommendation(EndpointSimilar, monitoring.ResultFailure)
		return nil, err
	}

	index, err := s.index(ctx)
	if err != nil {
		monitoring.RecordRecommendation(EndpointSimilar, monitoring.ResultFailure)
		return nil, err
	}

	monitoring.RecordRecommendation(EndpointSimilar, monitoring.ResultSuccess)
	return index.Similar(productID, k), nil
}

// Refresh rebuilds the index from the source and installs it as current.
func (s *Service) Refresh(ctx context.Context) (*Index, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Service) refreshLocked(ctx context.Context) (*Index, error) {
	start := time.Now()
	index, err := s.build(ctx)
	duration := time.Since(start)
	if err != nil {
		monitoring.RecordIndexRefresh(monitoring.ResultFailure, err.Error(), 0, duration)
		s.log.Warn("recommendation index refresh failed", zap.Error(err), zap.Duration("duration", duration))
		return nil, err
	}

	s.current.Store(index)
	monitoring.RecordIndexRefresh(monitoring.ResultSuccess, "", index.Products(), duration)
	s.log.Info("recommendation index refreshed",
		zap.Int("orders", index.Orders()),
		zap.Int("products", index.Products()),
		zap.Duration("duration", duration),
	)
	return index, nil
}

// Current returns the latest cached index, or nil before the first refresh.
func (s *Service) Current() *Index {
	return s.current.Load()
}

// Cached reports whether queries are served from the cached index.
func (s *Service) Cached() bool {
	return s.cached
}

func (s *Service) index(ctx context.Context) (*Index, error) {
	if !s.cached {
		return s.build(ctx)
	}
	if index := s.current.Load(); index != nil {
		return index, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if index := s.current.Load(); index != nil {
		return index, nil
	}
	return s.refreshLocked(ctx)
}

func (s *Service) build(ctx context.Context) (*Index, error) {
	orders, err := s.source.Orders(ctx)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.ErrSourceUnavailable.WithInternal(err)
	}
	return NewIndex(orders, s.now()), nil
}

func checkLimit(name string, value int) error {
	if value < 1 || value > MaxLimit {
		return apperrors.NewBadRequest(name + " must be between 1 and 100")
	}
	return nil
}
