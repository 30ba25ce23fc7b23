package esg

import (
	"context"
	"fmt"
	"time"

	esgRepo "waly/database/repository/esg"
	"waly/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const cacheSize = 512

// ESGService is the read-only data provider surface used by the assistant.
type ESGService interface {
	GetAllESGData(ctx context.Context, userID string) ([]models.ESGRecord, error)
	GetCarbonEmissions(ctx context.Context, userID string) ([]models.CarbonEmission, error)
	CalculateCarbonFootprint(emissions []models.CarbonEmission) models.CarbonFootprint
	GetComplianceFrameworks(ctx context.Context) ([]models.ComplianceFramework, error)
	FetchBenchmarks(ctx context.Context) ([]models.Benchmark, error)
}

// DefaultESGService reads from the repository through a short-lived LRU so
// that repeated context resolution on the same page does not hit Mongo.
type DefaultESGService struct {
	repo   esgRepo.ESGRepository
	cache  *expirable.LRU[string, any]
	logger *zap.Logger
}

func NewDefaultESGService(repo esgRepo.ESGRepository, ttl time.Duration, logger *zap.Logger) (*DefaultESGService, error) {
	if repo == nil {
		return nil, fmt.Errorf("esg service initialization error: repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultESGService{
		repo:   repo,
		cache:  expirable.NewLRU[string, any](cacheSize, nil, ttl),
		logger: logger,
	}, nil
}

func (s *DefaultESGService) GetAllESGData(ctx context.Context, userID string) ([]models.ESGRecord, error) {
	return cached(s, "records:"+userID, func() ([]models.ESGRecord, error) {
		return s.repo.ListRecords(ctx, userID)
	})
}

func (s *DefaultESGService) GetCarbonEmissions(ctx context.Context, userID string) ([]models.CarbonEmission, error) {
	return cached(s, "emissions:"+userID, func() ([]models.CarbonEmission, error) {
		return s.repo.ListEmissions(ctx, userID)
	})
}

func (s *DefaultESGService) GetComplianceFrameworks(ctx context.Context) ([]models.ComplianceFramework, error) {
	return cached(s, "frameworks", func() ([]models.ComplianceFramework, error) {
		return s.repo.ListFrameworks(ctx)
	})
}

func (s *DefaultESGService) FetchBenchmarks(ctx context.Context) ([]models.Benchmark, error) {
	return cached(s, "benchmarks", func() ([]models.Benchmark, error) {
		return s.repo.ListBenchmarks(ctx)
	})
}

// CalculateCarbonFootprint sums emissions per GHG scope.
func (s *DefaultESGService) CalculateCarbonFootprint(emissions []models.CarbonEmission) models.CarbonFootprint {
	return CalculateCarbonFootprint(emissions)
}

// Invalidate drops every cached entry.
func (s *DefaultESGService) Invalidate() {
	s.cache.Purge()
}

func cached[T any](s *DefaultESGService, key string, load func() ([]T, error)) ([]T, error) {
	if v, ok := s.cache.Get(key); ok {
		if items, ok := v.([]T); ok {
			return items, nil
		}
	}
	items, err := load()
	if err != nil {
		s.logger.Debug("esg provider read failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	s.cache.Add(key, items)
	return items, nil
}
