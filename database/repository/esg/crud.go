package esgRepo

import (
	"context"
	"time"

	"waly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxListed caps every list query; the assistant only ever samples a handful.
const maxListed = 200

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}}).SetLimit(maxListed)
}

// ListRecords returns the user's ESG records, newest first.
func (r *mongoESGRepo) ListRecords(ctx context.Context, userID string) ([]models.ESGRecord, error) {
	var records []models.ESGRecord
	if err := findAll(ctx, r.records, bson.M{"userId": userID}, newestFirst("recordedAt"), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListEmissions returns the user's emission entries, newest period first.
func (r *mongoESGRepo) ListEmissions(ctx context.Context, userID string) ([]models.CarbonEmission, error) {
	var emissions []models.CarbonEmission
	if err := findAll(ctx, r.emissions, bson.M{"userId": userID}, newestFirst("periodStart"), &emissions); err != nil {
		return nil, err
	}
	return emissions, nil
}

// ListBenchmarks returns the industry benchmark table.
func (r *mongoESGRepo) ListBenchmarks(ctx context.Context) ([]models.Benchmark, error) {
	var benchmarks []models.Benchmark
	if err := findAll(ctx, r.benchmarks, bson.M{}, newestFirst("updatedAt"), &benchmarks); err != nil {
		return nil, err
	}
	return benchmarks, nil
}

// ListFrameworks returns compliance frameworks ordered by due date.
func (r *mongoESGRepo) ListFrameworks(ctx context.Context) ([]models.ComplianceFramework, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}).SetLimit(maxListed)
	var frameworks []models.ComplianceFramework
	if err := findAll(ctx, r.frameworks, bson.M{}, opts, &frameworks); err != nil {
		return nil, err
	}
	return frameworks, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, out interface{}) error {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (r *mongoESGRepo) InsertRecords(ctx context.Context, records []models.ESGRecord) error {
	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.RecordedAt.IsZero() {
			rec.RecordedAt = time.Now()
		}
		docs = append(docs, rec)
	}
	return insertMany(ctx, r.records, docs)
}

func (r *mongoESGRepo) InsertEmissions(ctx context.Context, emissions []models.CarbonEmission) error {
	docs := make([]interface{}, 0, len(emissions))
	for _, e := range emissions {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		docs = append(docs, e)
	}
	return insertMany(ctx, r.emissions, docs)
}

func (r *mongoESGRepo) InsertBenchmarks(ctx context.Context, benchmarks []models.Benchmark) error {
	docs := make([]interface{}, 0, len(benchmarks))
	for _, b := range benchmarks {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = time.Now()
		}
		docs = append(docs, b)
	}
	return insertMany(ctx, r.benchmarks, docs)
}

func (r *mongoESGRepo) InsertFrameworks(ctx context.Context, frameworks []models.ComplianceFramework) error {
	docs := make([]interface{}, 0, len(frameworks))
	for _, f := range frameworks {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		docs = append(docs, f)
	}
	return insertMany(ctx, r.frameworks, docs)
}

func insertMany(ctx context.Context, coll *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}
