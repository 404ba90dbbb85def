package model

import (
	"math"
	"slices"

	"github.com/zeronethomes/znecalc/pkg/types"
)

// Parameters is a validated, typed view of a types.ParameterTable.
type Parameters struct {
	BuyPricePerKWH  float64
	SellPricePerKWH float64

	ReferenceAnnualKWH     float64
	ReferenceSquareFootage float64

	Efficiency map[types.ConstructionQuality]float64

	PVCoverageFraction            float64
	PVApplyConstructionMultiplier bool
	PVSystemKW                    float64
	PVCostPerWatt                 float64

	SolarThermalCostPerSqft       float64
	SolarThermalOffsetFraction    float64
	StirlingGeneratorKWPer1000    float64
	StirlingGeneratorEfficiency   float64
	StirlingGeneratorCostPerKW    float64
	StirlingChillerKWPer1000      float64
	StirlingChillerCostPerKW      float64
	StirlingChillerOffsetFraction float64
	ThermalStorageCostPerKWDay    float64
	ChilledBeamCostPerSqft        float64
	ChilledBeamCoverageFactor     float64

	HVACCostPerSqft         float64
	HVACConditionedFraction float64
	HVACAvoidedSolarPV      bool
	HVACAvoidedSolarThermal bool

	HoursPerYear        float64
	SystemLifetimeYears float64
}

// paramKind describes the range a parameter value must fall in.
type paramKind int

const (
	// kindNonNegative is any value >= 0: prices, unit costs, sizes
	kindNonNegative paramKind = iota
	// kindPositive is any value > 0: divisors and reference quantities
	kindPositive
	// kindMultiplier is in (0,1]
	kindMultiplier
	// kindFraction is in [0,1]
	kindFraction
	// kindSwitch is exactly 0 or 1
	kindSwitch
)

// Resolve validates a parameter table and converts it into Parameters. The
// table must be at the current version (see types.MigrateParameterTable),
// carry every key, and carry no unknown keys.
func Resolve(table types.ParameterTable) (Parameters, error) {
	if table.Version != types.CurrentParameterTableVersion {
		return Parameters{}, &types.ConfigurationError{
			Field:  "parameterTable.version",
			Value:  formatInt(table.Version),
			Reason: "table must be migrated to version " + formatInt(types.CurrentParameterTableVersion),
		}
	}
	known := types.ParameterKeys()
	for _, k := range table.Keys() {
		if !slices.Contains(known, k) {
			return Parameters{}, &types.ConfigurationError{Field: "parameterTable." + k, Reason: "unknown parameter"}
		}
	}

	r := resolver{values: table.Values}
	p := Parameters{
		BuyPricePerKWH:         r.get(types.ParamBuyPricePerKWH, kindNonNegative),
		SellPricePerKWH:        r.get(types.ParamSellPricePerKWH, kindNonNegative),
		ReferenceAnnualKWH:     r.get(types.ParamReferenceAnnualKWH, kindPositive),
		ReferenceSquareFootage: r.get(types.ParamReferenceSquareFootage, kindPositive),
		Efficiency: map[types.ConstructionQuality]float64{
			types.ConstructionTraditional:  r.get(types.ParamEfficiencyTraditional, kindMultiplier),
			types.ConstructionEnergyStar:   r.get(types.ParamEfficiencyEnergyStar, kindMultiplier),
			types.ConstructionEnerPHit:     r.get(types.ParamEfficiencyEnerPHit, kindMultiplier),
			types.ConstructionPassiveHouse: r.get(types.ParamEfficiencyPassiveHouse, kindMultiplier),
		},
		PVCoverageFraction:            r.get(types.ParamPVCoverageFraction, kindFraction),
		PVApplyConstructionMultiplier: r.get(types.ParamPVApplyConstructionMultiplier, kindSwitch) == 1,
		PVSystemKW:                    r.get(types.ParamPVSystemKW, kindNonNegative),
		PVCostPerWatt:                 r.get(types.ParamPVCostPerWatt, kindNonNegative),
		SolarThermalCostPerSqft:       r.get(types.ParamSolarThermalCostPerSqft, kindNonNegative),
		SolarThermalOffsetFraction:    r.get(types.ParamSolarThermalOffsetFraction, kindFraction),
		StirlingGeneratorKWPer1000:    r.get(types.ParamStirlingGeneratorKWPer1000, kindNonNegative),
		StirlingGeneratorEfficiency:   r.get(types.ParamStirlingGeneratorEfficiency, kindFraction),
		StirlingGeneratorCostPerKW:    r.get(types.ParamStirlingGeneratorCostPerKW, kindNonNegative),
		StirlingChillerKWPer1000:      r.get(types.ParamStirlingChillerKWPer1000, kindNonNegative),
		StirlingChillerCostPerKW:      r.get(types.ParamStirlingChillerCostPerKW, kindNonNegative),
		StirlingChillerOffsetFraction: r.get(types.ParamStirlingChillerOffsetFraction, kindFraction),
		ThermalStorageCostPerKWDay:    r.get(types.ParamThermalStorageCostPerKWDay, kindNonNegative),
		ChilledBeamCostPerSqft:        r.get(types.ParamChilledBeamCostPerSqft, kindNonNegative),
		ChilledBeamCoverageFactor:     r.get(types.ParamChilledBeamCoverageFactor, kindFraction),
		HVACCostPerSqft:               r.get(types.ParamHVACCostPerSqft, kindNonNegative),
		HVACConditionedFraction:       r.get(types.ParamHVACConditionedFraction, kindFraction),
		HVACAvoidedSolarPV:            r.get(types.ParamHVACAvoidedSolarPV, kindSwitch) == 1,
		HVACAvoidedSolarThermal:       r.get(types.ParamHVACAvoidedSolarThermal, kindSwitch) == 1,
		HoursPerYear:                  r.get(types.ParamHoursPerYear, kindPositive),
		SystemLifetimeYears:           r.get(types.ParamSystemLifetimeYears, kindPositive),
	}
	if r.err != nil {
		return Parameters{}, r.err
	}
	if p.SolarThermalOffsetFraction+p.StirlingChillerOffsetFraction > 1 {
		return Parameters{}, &types.ConfigurationError{
			Field:  "parameterTable." + types.ParamSolarThermalOffsetFraction,
			Reason: "solar thermal and chiller offsets together exceed 1",
		}
	}
	return p, nil
}

// resolver reads keys from a table and remembers the first error so Resolve
// can build the struct in one literal.
type resolver struct {
	values map[string]float64
	err    error
}

func (r *resolver) get(key string, kind paramKind) float64 {
	if r.err != nil {
		return 0
	}
	v, ok := r.values[key]
	if !ok {
		r.err = &types.ConfigurationError{Field: "parameterTable." + key, Reason: "missing parameter"}
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.err = &types.ConfigurationError{Field: "parameterTable." + key, Value: formatFloat(v), Reason: "must be finite"}
		return 0
	}
	var reason string
	switch kind {
	case kindNonNegative:
		if v < 0 {
			reason = "must be non-negative"
		}
	case kindPositive:
		if v <= 0 {
			reason = "must be positive"
		}
	case kindMultiplier:
		if v <= 0 || v > 1 {
			reason = "must be in (0,1]"
		}
	case kindFraction:
		if v < 0 || v > 1 {
			reason = "must be in [0,1]"
		}
	case kindSwitch:
		if v != 0 && v != 1 {
			reason = "must be 0 or 1"
		}
	}
	if reason != "" {
		r.err = &types.ConfigurationError{Field: "parameterTable." + key, Value: formatFloat(v), Reason: reason}
		return 0
	}
	return v
}
