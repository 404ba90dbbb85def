package model

import (
	"math"

	"github.com/zeronethomes/znecalc/pkg/types"
)

// BaselineConsumption scales the reference home's annual consumption to the
// given floor area.
func BaselineConsumption(squareFootage float64, p Parameters) float64 {
	return p.ReferenceAnnualKWH * (squareFootage / p.ReferenceSquareFootage)
}

// generatorKW sizes the Stirling generator from the floor area.
func generatorKW(squareFootage float64, p Parameters) float64 {
	return squareFootage / 1000 * p.StirlingGeneratorKWPer1000
}

// chillerKW sizes the Stirling chiller from the floor area.
func chillerKW(squareFootage float64, p Parameters) float64 {
	return squareFootage / 1000 * p.StirlingChillerKWPer1000
}

// AnnualConsumption computes the annual energy figures for a configuration.
//
// Consumption never goes negative: generation beyond the home's demand shows
// up as a negative NetEnergyKWH instead.
func AnnualConsumption(cfg types.HomeConfiguration, p Parameters) (types.EnergyResult, error) {
	if err := cfg.Validate(); err != nil {
		return types.EnergyResult{}, err
	}
	multiplier, err := EfficiencyMultiplier(cfg.ConstructionQuality, p)
	if err != nil {
		return types.EnergyResult{}, err
	}

	baseline := BaselineConsumption(cfg.SquareFootage, p)

	var demand, generation, exported float64
	switch cfg.PrimaryEnergySource {
	case types.SourceElectricGrid:
		demand = baseline * multiplier
		exported = cfg.ExcessCapacityKWH
	case types.SourceSolarPV:
		// on-site generation replaces the envelope as the main lever
		demand = baseline * (1 - p.PVCoverageFraction)
		if p.PVApplyConstructionMultiplier {
			demand *= multiplier
		}
		exported = cfg.ExcessCapacityKWH
	case types.SourceSolarThermal:
		offset := p.SolarThermalOffsetFraction
		if cfg.HasOption(types.OptionStirlingChiller) {
			offset += p.StirlingChillerOffsetFraction
		}
		demand = baseline * multiplier * math.Max(0, 1-offset)
		if cfg.HasOption(types.OptionStirlingGenerator) {
			generation = generatorKW(cfg.SquareFootage, p) * p.StirlingGeneratorEfficiency * p.HoursPerYear
		}
	default:
		return types.EnergyResult{}, &types.ConfigurationError{
			Field:  "primaryEnergySource",
			Value:  string(cfg.PrimaryEnergySource),
			Reason: "unknown energy source",
		}
	}

	return types.EnergyResult{
		BaselineConsumptionKWH: baseline,
		AnnualConsumptionKWH:   math.Max(0, demand-generation),
		OnSiteGenerationKWH:    generation,
		NetEnergyKWH:           demand - generation - exported,
	}, nil
}
