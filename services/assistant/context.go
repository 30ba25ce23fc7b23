package assistant

import (
	"context"
	"strings"
	"time"

	"waly/models"

	"go.uber.org/zap"
)

const (
	maxSampledItems     = 5
	maxBenchmarkItems   = 3
	maxFrameworkItems   = 3
	providerReadTimeout = 5 * time.Second
)

// DataProvider is the read-only ESG data surface the resolver samples from.
type DataProvider interface {
	GetAllESGData(ctx context.Context, userID string) ([]models.ESGRecord, error)
	GetCarbonEmissions(ctx context.Context, userID string) ([]models.CarbonEmission, error)
	CalculateCarbonFootprint(emissions []models.CarbonEmission) models.CarbonFootprint
	GetComplianceFrameworks(ctx context.Context) ([]models.ComplianceFramework, error)
	FetchBenchmarks(ctx context.Context) ([]models.Benchmark, error)
}

// ContextResolver derives a PageContext from the current path.
type ContextResolver struct {
	provider DataProvider
	logger   *zap.Logger
}

func NewContextResolver(provider DataProvider, logger *zap.Logger) *ContextResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextResolver{provider: provider, logger: logger}
}

// pathRules are checked in order; the first substring hit wins.
var pathRules = []struct {
	fragment string
	page     models.PageType
}{
	{"analytics", models.PageAnalytics},
	{"benchmark", models.PageBenchmarking},
	{"compliance", models.PageCompliance},
	{"about", models.PageAbout},
	{"auth", models.PageAuth},
}

// ClassifyPath maps a navigation path to its page type.
func ClassifyPath(path string) models.PageType {
	for _, r := range pathRules {
		if strings.Contains(path, r.fragment) {
			return r.page
		}
	}
	if path == "/" {
		return models.PageHome
	}
	return models.PageUnknown
}

// Resolve never fails: provider errors are logged and leave that part of the
// sample empty. Data is only sampled for authenticated users (userID != "").
func (r *ContextResolver) Resolve(ctx context.Context, path, userID string) models.PageContext {
	pc := models.PageContext{
		Path:       path,
		PageType:   ClassifyPath(path),
		ResolvedAt: time.Now(),
	}
	if r.provider == nil || userID == "" {
		return pc
	}

	ctx, cancel := context.WithTimeout(ctx, providerReadTimeout)
	defer cancel()

	switch pc.PageType {
	case models.PageAnalytics:
		emissions, err := r.provider.GetCarbonEmissions(ctx, userID)
		if err != nil {
			r.logger.Warn("context: carbon emissions unavailable", zap.String("path", path), zap.Error(err))
		} else {
			footprint := r.provider.CalculateCarbonFootprint(emissions)
			pc.SampledData.CarbonFootprint = &footprint
			pc.SampledData.Emissions = truncate(emissions, maxSampledItems)
		}

		records, err := r.provider.GetAllESGData(ctx, userID)
		if err != nil {
			r.logger.Warn("context: esg records unavailable", zap.String("path", path), zap.Error(err))
		} else {
			pc.SampledData.ESGRecords = truncate(records, maxSampledItems)
		}

	case models.PageBenchmarking:
		benchmarks, err := r.provider.FetchBenchmarks(ctx)
		if err != nil {
			r.logger.Warn("context: benchmarks unavailable", zap.String("path", path), zap.Error(err))
		} else {
			pc.SampledData.Benchmarks = truncate(benchmarks, maxBenchmarkItems)
		}

	case models.PageCompliance:
		frameworks, err := r.provider.GetComplianceFrameworks(ctx)
		if err != nil {
			r.logger.Warn("context: compliance frameworks unavailable", zap.String("path", path), zap.Error(err))
		} else {
			pc.SampledData.Frameworks = truncate(frameworks, maxFrameworkItems)
		}
	}
	return pc
}

// truncate copies at most n items so the sample never aliases provider data.
func truncate[T any](items []T, n int) []T {
	if len(items) == 0 {
		return nil
	}
	if len(items) > n {
		items = items[:n]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
