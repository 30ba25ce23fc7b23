package esgRepo

import (
	"context"

	"waly/database"
	"waly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ESGRepository reads and writes the ESG collections backing the dashboard.
type ESGRepository interface {
	ListRecords(ctx context.Context, userID string) ([]models.ESGRecord, error)
	ListEmissions(ctx context.Context, userID string) ([]models.CarbonEmission, error)
	ListBenchmarks(ctx context.Context) ([]models.Benchmark, error)
	ListFrameworks(ctx context.Context) ([]models.ComplianceFramework, error)

	InsertRecords(ctx context.Context, records []models.ESGRecord) error
	InsertEmissions(ctx context.Context, emissions []models.CarbonEmission) error
	InsertBenchmarks(ctx context.Context, benchmarks []models.Benchmark) error
	InsertFrameworks(ctx context.Context, frameworks []models.ComplianceFramework) error
}

type mongoESGRepo struct {
	records    *mongo.Collection
	emissions  *mongo.Collection
	benchmarks *mongo.Collection
	frameworks *mongo.Collection
}

// NewMongoESGRepo returns a new ESGRepository instance using MongoDB.
func NewMongoESGRepo() (ESGRepository, error) {
	db := database.Database()
	repo := &mongoESGRepo{
		records:    db.Collection("esg_records"),
		emissions:  db.Collection("carbon_emissions"),
		benchmarks: db.Collection("benchmarks"),
		frameworks: db.Collection("compliance_frameworks"),
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}
