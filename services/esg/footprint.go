package esg

import (
	"math"

	"waly/models"
)

// CalculateCarbonFootprint aggregates emissions per scope. Unknown scopes are
// counted in the total only. Values are rounded to two decimals.
func CalculateCarbonFootprint(emissions []models.CarbonEmission) models.CarbonFootprint {
	var fp models.CarbonFootprint
	for _, e := range emissions {
		switch e.Scope {
		case models.Scope1:
			fp.Scope1Tonnes += e.TonnesCO2e
		case models.Scope2:
			fp.Scope2Tonnes += e.TonnesCO2e
		case models.Scope3:
			fp.Scope3Tonnes += e.TonnesCO2e
		}
		fp.TotalTonnes += e.TonnesCO2e
		fp.EntryCount++
	}
	fp.TotalTonnes = round2(fp.TotalTonnes)
	fp.Scope1Tonnes = round2(fp.Scope1Tonnes)
	fp.Scope2Tonnes = round2(fp.Scope2Tonnes)
	fp.Scope3Tonnes = round2(fp.Scope3Tonnes)
	return fp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
