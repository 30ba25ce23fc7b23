package esg

import (
	"context"
	"errors"
	"testing"
	"time"

	"waly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	recordCalls int
	records     []models.ESGRecord
	err         error
}

func (f *fakeRepo) ListRecords(ctx context.Context, userID string) ([]models.ESGRecord, error) {
	f.recordCalls++
	return f.records, f.err
}
func (f *fakeRepo) ListEmissions(ctx context.Context, userID string) ([]models.CarbonEmission, error) {
	return nil, f.err
}
func (f *fakeRepo) ListBenchmarks(ctx context.Context) ([]models.Benchmark, error) {
	return nil, f.err
}
func (f *fakeRepo) ListFrameworks(ctx context.Context) ([]models.ComplianceFramework, error) {
	return nil, f.err
}
func (f *fakeRepo) InsertRecords(ctx context.Context, records []models.ESGRecord) error { return nil }
func (f *fakeRepo) InsertEmissions(ctx context.Context, emissions []models.CarbonEmission) error {
	return nil
}
func (f *fakeRepo) InsertBenchmarks(ctx context.Context, benchmarks []models.Benchmark) error {
	return nil
}
func (f *fakeRepo) InsertFrameworks(ctx context.Context, frameworks []models.ComplianceFramework) error {
	return nil
}

func TestCalculateCarbonFootprint(t *testing.T) {
	fp := CalculateCarbonFootprint([]models.CarbonEmission{
		{Scope: models.Scope1, TonnesCO2e: 10.125},
		{Scope: models.Scope2, TonnesCO2e: 5},
		{Scope: models.Scope3, TonnesCO2e: 2.5},
		{Scope: models.Scope1, TonnesCO2e: 1},
	})

	assert.Equal(t, 4, fp.EntryCount)
	assert.InDelta(t, 18.63, fp.TotalTonnes, 0.001)
	assert.InDelta(t, 11.13, fp.Scope1Tonnes, 0.001)
	assert.InDelta(t, 5.0, fp.Scope2Tonnes, 0.001)
	assert.InDelta(t, 2.5, fp.Scope3Tonnes, 0.001)
}

func TestCalculateCarbonFootprintEmpty(t *testing.T) {
	assert.Equal(t, models.CarbonFootprint{}, CalculateCarbonFootprint(nil))
}

func TestGetAllESGDataIsCached(t *testing.T) {
	repo := &fakeRepo{records: []models.ESGRecord{{ID: "r1"}}}
	svc, err := NewDefaultESGService(repo, time.Minute, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := svc.GetAllESGData(context.Background(), "u1")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 1, repo.recordCalls)

	svc.Invalidate()
	_, err = svc.GetAllESGData(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.recordCalls)
}

func TestErrorsAreNotCached(t *testing.T) {
	repo := &fakeRepo{err: errors.New("mongo down")}
	svc, err := NewDefaultESGService(repo, time.Minute, nil)
	require.NoError(t, err)

	_, err = svc.GetAllESGData(context.Background(), "u1")
	require.Error(t, err)
	_, err = svc.GetAllESGData(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, 2, repo.recordCalls)
}

func TestNewDefaultESGServiceRequiresRepo(t *testing.T) {
	_, err := NewDefaultESGService(nil, time.Minute, nil)
	assert.Error(t, err)
}
