package types

import (
	"fmt"
	"maps"
	"slices"
)

// CurrentParameterTableVersion is the current version of the parameter table
// layout. Increment this value when adding keys that require default values.
const CurrentParameterTableVersion = 2

// DefaultParameterTableName is the name of the built-in reference table.
const DefaultParameterTableName = "reference"

// Parameter table keys.
const (
	ParamBuyPricePerKWH  = "buy_price_per_kwh"
	ParamSellPricePerKWH = "sell_price_per_kwh"

	ParamReferenceAnnualKWH     = "reference_annual_kwh"
	ParamReferenceSquareFootage = "reference_square_footage"

	ParamEfficiencyTraditional  = "efficiency_traditional"
	ParamEfficiencyEnergyStar   = "efficiency_energy_star"
	ParamEfficiencyEnerPHit     = "efficiency_enerphit"
	ParamEfficiencyPassiveHouse = "efficiency_passive_house"

	ParamPVCoverageFraction            = "pv_coverage_fraction"
	ParamPVApplyConstructionMultiplier = "pv_apply_construction_multiplier"
	ParamPVSystemKW                    = "pv_system_kw"
	ParamPVCostPerWatt                 = "pv_cost_per_watt"

	ParamSolarThermalCostPerSqft       = "solar_thermal_cost_per_sqft"
	ParamSolarThermalOffsetFraction    = "solar_thermal_offset_fraction"
	ParamStirlingGeneratorKWPer1000    = "stirling_generator_kw_per_1000_sqft"
	ParamStirlingGeneratorEfficiency   = "stirling_generator_efficiency"
	ParamStirlingGeneratorCostPerKW    = "stirling_generator_cost_per_kw"
	ParamStirlingChillerKWPer1000      = "stirling_chiller_kw_per_1000_sqft"
	ParamStirlingChillerCostPerKW      = "stirling_chiller_cost_per_kw"
	ParamStirlingChillerOffsetFraction = "stirling_chiller_offset_fraction"
	ParamThermalStorageCostPerKWDay    = "thermal_storage_cost_per_kw_day"
	ParamChilledBeamCostPerSqft        = "chilled_beam_cost_per_sqft"
	ParamChilledBeamCoverageFactor     = "chilled_beam_coverage_factor"

	ParamHVACCostPerSqft         = "hvac_cost_per_sqft"
	ParamHVACConditionedFraction = "hvac_conditioned_fraction"
	ParamHVACAvoidedSolarPV      = "hvac_avoided_solar_pv"
	ParamHVACAvoidedSolarThermal = "hvac_avoided_solar_thermal"
	ParamHoursPerYear            = "hours_per_year"
	ParamSystemLifetimeYears     = "system_lifetime_years"
)

// ParameterTable is a named, versioned flat mapping of parameter keys to
// numbers. Tables are treated as read-only once loaded; use Clone before
// changing a shared table.
type ParameterTable struct {
	Name    string             `json:"name" yaml:"name"`
	Version int                `json:"version" yaml:"version"`
	Values  map[string]float64 `json:"values" yaml:"values"`
}

// Clone returns a deep copy of the table.
func (t ParameterTable) Clone() ParameterTable {
	t.Values = maps.Clone(t.Values)
	return t
}

// Keys returns the table's keys in sorted order.
func (t ParameterTable) Keys() []string {
	return slices.Sorted(maps.Keys(t.Values))
}

// v1Defaults are the values every version 1 table was expected to carry.
var v1Defaults = map[string]float64{
	ParamBuyPricePerKWH:                0.12,
	ParamSellPricePerKWH:               0.10,
	ParamReferenceAnnualKWH:            40000,
	ParamReferenceSquareFootage:        1422,
	ParamEfficiencyTraditional:         1.0,
	ParamEfficiencyEnergyStar:          0.9,
	ParamEfficiencyEnerPHit:            0.75,
	ParamEfficiencyPassiveHouse:        0.5,
	ParamPVCoverageFraction:            0.30,
	ParamPVSystemKW:                    6,
	ParamPVCostPerWatt:                 3.25,
	ParamSolarThermalCostPerSqft:       2,
	ParamSolarThermalOffsetFraction:    0.1667,
	ParamStirlingGeneratorKWPer1000:    1.0,
	ParamStirlingGeneratorEfficiency:   0.25,
	ParamStirlingGeneratorCostPerKW:    3000,
	ParamStirlingChillerKWPer1000:      3.5,
	ParamStirlingChillerCostPerKW:      1200,
	ParamStirlingChillerOffsetFraction: 0.0417,
	ParamThermalStorageCostPerKWDay:    300,
	ParamChilledBeamCostPerSqft:        22.5,
	ParamChilledBeamCoverageFactor:     0.75,
	ParamHVACCostPerSqft:               8,
	ParamHVACConditionedFraction:       0.9,
	ParamHoursPerYear:                  8760,
}

// v2Defaults are the knobs added in version 2.
var v2Defaults = map[string]float64{
	// the renewable configurations displace conventional HVAC
	ParamHVACAvoidedSolarPV:            1,
	ParamHVACAvoidedSolarThermal:       1,
	ParamPVApplyConstructionMultiplier: 0,
	ParamSystemLifetimeYears:           25,
}

// ParameterKeys returns every key a current table must carry, sorted.
func ParameterKeys() []string {
	keys := slices.Collect(maps.Keys(v1Defaults))
	keys = slices.AppendSeq(keys, maps.Keys(v2Defaults))
	slices.Sort(keys)
	return keys
}

// DefaultParameterTable returns the reference table.
func DefaultParameterTable() ParameterTable {
	values := make(map[string]float64, len(v1Defaults)+len(v2Defaults))
	maps.Copy(values, v1Defaults)
	maps.Copy(values, v2Defaults)
	return ParameterTable{
		Name:    DefaultParameterTableName,
		Version: CurrentParameterTableVersion,
		Values:  values,
	}
}

// MigrateParameterTable migrates the table to the current version. Keys the
// table already carries are never overwritten.
// It returns the migrated table, a boolean indicating if the table changed, and an error if migration failed.
func MigrateParameterTable(t ParameterTable, currentVersion int) (ParameterTable, bool, error) {
	if currentVersion >= CurrentParameterTableVersion {
		return t, false, nil
	}

	t = t.Clone()
	if t.Values == nil {
		t.Values = make(map[string]float64)
	}
	fill := func(defaults map[string]float64) {
		for k, v := range defaults {
			if _, ok := t.Values[k]; !ok {
				t.Values[k] = v
			}
		}
	}
	for version := currentVersion + 1; version <= CurrentParameterTableVersion; version++ {
		switch version {
		case 1:
			// version 1: initial
			fill(v1Defaults)
		case 2:
			// version 2: hvac offset knobs, pv multiplier knob and lifetime
			fill(v2Defaults)
		default:
			return t, false, fmt.Errorf("unknown parameter table version: %d", version)
		}
	}
	t.Version = CurrentParameterTableVersion
	return t, true, nil
}
