package models

import "time"

// ESGCategory groups ESG records into the three pillars.
type ESGCategory string

const (
	CategoryEnvironmental ESGCategory = "environmental"
	CategorySocial        ESGCategory = "social"
	CategoryGovernance    ESGCategory = "governance"
)

// ESGRecord is a single tracked sustainability metric value.
type ESGRecord struct {
	ID         string      `json:"id" bson:"id"`
	UserID     string      `json:"userId" bson:"userId"`
	Category   ESGCategory `json:"category" bson:"category"`
	Metric     string      `json:"metric" bson:"metric"`
	Value      float64     `json:"value" bson:"value"`
	Unit       string      `json:"unit" bson:"unit"`
	RecordedAt time.Time   `json:"recordedAt" bson:"recordedAt"`
}

// EmissionScope follows the GHG protocol scopes.
type EmissionScope int

const (
	Scope1 EmissionScope = 1
	Scope2 EmissionScope = 2
	Scope3 EmissionScope = 3
)

// CarbonEmission is one emission entry in tonnes of CO2 equivalent.
type CarbonEmission struct {
	ID          string        `json:"id" bson:"id"`
	UserID      string        `json:"userId" bson:"userId"`
	Scope       EmissionScope `json:"scope" bson:"scope"`
	Source      string        `json:"source" bson:"source"`
	TonnesCO2e  float64       `json:"tonnesCo2e" bson:"tonnesCo2e"`
	PeriodStart time.Time     `json:"periodStart" bson:"periodStart"`
	PeriodEnd   time.Time     `json:"periodEnd" bson:"periodEnd"`
}

// CarbonFootprint aggregates emissions per scope.
type CarbonFootprint struct {
	TotalTonnes  float64 `json:"totalTonnes"`
	Scope1Tonnes float64 `json:"scope1Tonnes"`
	Scope2Tonnes float64 `json:"scope2Tonnes"`
	Scope3Tonnes float64 `json:"scope3Tonnes"`
	EntryCount   int     `json:"entryCount"`
}

// Benchmark compares one metric against an industry peer group.
type Benchmark struct {
	ID              string    `json:"id" bson:"id"`
	Metric          string    `json:"metric" bson:"metric"`
	Industry        string    `json:"industry" bson:"industry"`
	CompanyValue    float64   `json:"companyValue" bson:"companyValue"`
	IndustryAverage float64   `json:"industryAverage" bson:"industryAverage"`
	Percentile      int       `json:"percentile" bson:"percentile"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ComplianceFramework tracks progress against a reporting framework (GRI, CSRD, ...).
type ComplianceFramework struct {
	ID       string    `json:"id" bson:"id"`
	Name     string    `json:"name" bson:"name"`
	Status   string    `json:"status" bson:"status"`
	Progress int       `json:"progress" bson:"progress"`
	DueDate  time.Time `json:"dueDate" bson:"dueDate"`
}
