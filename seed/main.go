// Command seed loads demo ESG data for one user and prints a bearer token for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"waly/config"
	"waly/database"
	esgRepo "waly/database/repository/esg"
	"waly/models"
	"waly/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	userID := flag.String("user", "demo-user", "user id the records belong to")
	email := flag.String("email", "demo@waly.app", "email embedded in the printed token")
	months := flag.Int("months", 12, "months of history to generate")
	reset := flag.Bool("reset", true, "clear existing ESG collections first")
	flag.Parse()

	config.LoadConfig()
	if config.AppConfig.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required to seed ESG data")
	}
	database.InitDB()
	defer database.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *reset {
		db := database.Database()
		for _, name := range []string{"esg_records", "carbon_emissions", "benchmarks", "compliance_frameworks"} {
			if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
				log.Fatalf("Failed to clear %s: %v", name, err)
			}
		}
	}

	repo, err := esgRepo.NewMongoESGRepo()
	if err != nil {
		log.Fatalf("Failed to initialize ESG repository: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	emissions := generateEmissions(rng, *userID, *months, now)
	records := generateRecords(rng, *userID, *months, now)

	if err := repo.InsertEmissions(ctx, emissions); err != nil {
		log.Fatalf("Failed to insert emissions: %v", err)
	}
	if err := repo.InsertRecords(ctx, records); err != nil {
		log.Fatalf("Failed to insert ESG records: %v", err)
	}
	if err := repo.InsertBenchmarks(ctx, generateBenchmarks(rng, now)); err != nil {
		log.Fatalf("Failed to insert benchmarks: %v", err)
	}
	if err := repo.InsertFrameworks(ctx, generateFrameworks(now)); err != nil {
		log.Fatalf("Failed to insert compliance frameworks: %v", err)
	}
	fmt.Printf("Seeded %d emissions and %d ESG records for %s\n", len(emissions), len(records), *userID)

	if token, err := utils.GenerateToken(*userID, *email, 24*time.Hour); err == nil {
		fmt.Printf("Bearer token (24h): %s\n", token)
	} else {
		fmt.Printf("No token printed: %v\n", err)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func generateEmissions(rng *rand.Rand, userID string, months int, now time.Time) []models.CarbonEmission {
	sources := []struct {
		scope models.EmissionScope
		name  string
		base  float64
	}{
		{models.Scope1, "fleet fuel", 42},
		{models.Scope1, "natural gas heating", 18},
		{models.Scope2, "purchased electricity", 65},
		{models.Scope3, "business travel", 24},
		{models.Scope3, "purchased goods", 120},
	}

	var out []models.CarbonEmission
	for m := months - 1; m >= 0; m-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -m, 0)
		// Slow downward trend with noise.
		trend := 1 - 0.01*float64(months-1-m)
		for _, s := range sources {
			out = append(out, models.CarbonEmission{
				UserID:      userID,
				Scope:       s.scope,
				Source:      s.name,
				TonnesCO2e:  round2(s.base * trend * (0.9 + rng.Float64()*0.2)),
				PeriodStart: start,
				PeriodEnd:   start.AddDate(0, 1, 0).Add(-time.Second),
			})
		}
	}
	return out
}

func generateRecords(rng *rand.Rand, userID string, months int, now time.Time) []models.ESGRecord {
	metrics := []struct {
		category models.ESGCategory
		metric   string
		unit     string
		base     float64
	}{
		{models.CategoryEnvironmental, "water usage", "m3", 1800},
		{models.CategoryEnvironmental, "waste recycled", "%", 62},
		{models.CategoryEnvironmental, "renewable energy share", "%", 38},
		{models.CategorySocial, "employee turnover", "%", 11},
		{models.CategorySocial, "training hours per employee", "h", 21},
		{models.CategoryGovernance, "independent board members", "%", 55},
	}

	var out []models.ESGRecord
	for m := months - 1; m >= 0; m-- {
		at := now.AddDate(0, -m, 0)
		for _, mt := range metrics {
			out = append(out, models.ESGRecord{
				UserID:     userID,
				Category:   mt.category,
				Metric:     mt.metric,
				Value:      round2(mt.base * (0.95 + rng.Float64()*0.1)),
				Unit:       mt.unit,
				RecordedAt: at,
			})
		}
	}
	return out
}

func generateBenchmarks(rng *rand.Rand, now time.Time) []models.Benchmark {
	rows := []struct {
		metric  string
		company float64
		average float64
	}{
		{"carbon intensity (tCO2e per $M revenue)", 84, 97},
		{"renewable energy share (%)", 38, 31},
		{"water intensity (m3 per employee)", 14, 12},
		{"employee turnover (%)", 11, 14},
		{"board independence (%)", 55, 61},
	}
	out := make([]models.Benchmark, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Benchmark{
			Metric:          r.metric,
			Industry:        "manufacturing",
			CompanyValue:    r.company,
			IndustryAverage: r.average,
			Percentile:      25 + rng.Intn(60),
			UpdatedAt:       now,
		})
	}
	return out
}

func generateFrameworks(now time.Time) []models.ComplianceFramework {
	return []models.ComplianceFramework{
		{Name: "GRI", Status: "in progress", Progress: 72, DueDate: now.AddDate(0, 3, 0)},
		{Name: "CSRD", Status: "in progress", Progress: 41, DueDate: now.AddDate(0, 6, 0)},
		{Name: "TCFD", Status: "complete", Progress: 100, DueDate: now.AddDate(0, -1, 0)},
		{Name: "SASB", Status: "not started", Progress: 0, DueDate: now.AddDate(1, 0, 0)},
	}
}
