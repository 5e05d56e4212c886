package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/billing"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/cache"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/metrics"
)

// revenueGenerationKey is bumped on every ledger write. It is part of every summary key.
const revenueGenerationKey = "revenue:gen"

// RevenueService defines the interface for revenue reporting
type RevenueService interface {
	Summarize(ctx context.Context, filter models.RevenueFilter) (*models.RevenueSummary, error)
	Invalidate(ctx context.Context)
}

// RevenueServiceImpl implements RevenueService with an optional read-through cache.
type RevenueServiceImpl struct {
	payments repositories.PaymentStore
	cache    cache.Store
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewRevenueService creates a new revenue service. A nil store disables caching.
func NewRevenueService(payments repositories.PaymentStore, store cache.Store, ttl time.Duration, logger zerolog.Logger) *RevenueServiceImpl {
	if store == nil {
		store = cache.Noop{}
	}
	return &RevenueServiceImpl{
		payments: payments,
		cache:    store,
		ttl:      ttl,
		logger:   logger.With().Str("service", "revenue").Logger(),
	}
}

// Summarize aggregates the branch's ledger rows that match filter.
func (s *RevenueServiceImpl) Summarize(ctx context.Context, filter models.RevenueFilter) (*models.RevenueSummary, error) {
	if strings.TrimSpace(filter.BranchID) == "" {
		return nil, apperrors.NewValidationError("branchId", apperrors.ErrBranchRequired, "branch is required")
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperrors.NewValidationError("endDate", apperrors.ErrInvalidPeriod, "endDate is before startDate")
	}
	if filter.PaymentMethod != "" && !filter.PaymentMethod.Valid() {
		return nil, apperrors.NewValidationError("paymentMethod", apperrors.ErrInvalidMethod,
			fmt.Sprintf("payment method %q is not supported", filter.PaymentMethod))
	}

	key := s.cacheKey(ctx, filter)
	if key != "" {
		summary, ok := s.cached(ctx, key)
		metrics.RevenueCacheLookup(ok)
		if ok {
			return summary, nil
		}
	}

	agg := billing.NewRevenueAggregator()
	err := s.payments.ScanRevenue(ctx, filter, func(p *models.PaymentTransaction) error {
		agg.Add(p)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("branchId", filter.BranchID).Msg("Failed to scan ledger for revenue")
		return nil, err
	}
	summary := agg.Summary()

	if key != "" {
		s.store(ctx, key, summary)
	}
	return summary, nil
}

// Invalidate makes every cached summary stale.
func (s *RevenueServiceImpl) Invalidate(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, revenueGenerationKey); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to bump revenue cache generation")
	}
}

// cacheKey returns "" when the generation cannot be read, which skips the cache.
func (s *RevenueServiceImpl) cacheKey(ctx context.Context, filter models.RevenueFilter) string {
	gen, err := s.cache.Get(ctx, revenueGenerationKey)
	if errors.Is(err, cache.ErrMiss) {
		gen = "0"
	} else if err != nil {
		s.logger.Warn().Err(err).Msg("Revenue cache unavailable")
		return ""
	}

	return fmt.Sprintf("revenue:%s:%s:%s:%s:%s:%s",
		gen,
		filter.BranchID,
		formatFilterDate(filter.StartDate),
		formatFilterDate(filter.EndDate),
		models.NormalizeSubject(filter.Subject),
		filter.PaymentMethod,
	)
}

func formatFilterDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func (s *RevenueServiceImpl) cached(ctx context.Context, key string) (*models.RevenueSummary, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("Revenue cache read failed")
		}
		return nil, false
	}

	var summary models.RevenueSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cached revenue summary")
		return nil, false
	}
	s.logger.Debug().Str("key", key).Msg("Revenue summary served from cache")
	return &summary, true
}

func (s *RevenueServiceImpl) store(ctx context.Context, key string, summary *models.RevenueSummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode revenue summary for cache")
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Revenue cache write failed")
	}
}
