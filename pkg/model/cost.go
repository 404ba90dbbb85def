package model

import (
	"github.com/zeronethomes/znecalc/pkg/types"
)

// ConventionalHVACCost is the cost of a conventional HVAC system for the given
// floor area. It is the baseline every renewable configuration is compared
// against.
func ConventionalHVACCost(squareFootage float64, p Parameters) float64 {
	return p.HVACConditionedFraction * squareFootage * p.HVACCostPerSqft
}

// hvacAvoided reports whether the configuration's energy source displaces the
// conventional HVAC system.
func hvacAvoided(source types.EnergySource, p Parameters) bool {
	switch source {
	case types.SourceSolarPV:
		return p.HVACAvoidedSolarPV
	case types.SourceSolarThermal:
		return p.HVACAvoidedSolarThermal
	default:
		return false
	}
}

// SystemCosts computes the capital cost of every subsystem. Each cost is gated
// on the energy source and options that use it, so subsystems that are not
// part of the configuration cost exactly zero.
func SystemCosts(cfg types.HomeConfiguration, p Parameters) (types.CostBreakdown, error) {
	if err := cfg.Validate(); err != nil {
		return types.CostBreakdown{}, err
	}

	area := cfg.SquareFootage
	costs := make(map[types.Subsystem]float64, len(types.Subsystems))
	for _, s := range types.Subsystems {
		costs[s] = 0
	}

	switch cfg.PrimaryEnergySource {
	case types.SourceElectricGrid:
	case types.SourceSolarPV:
		// the array is sized once, not by area
		costs[types.SubsystemSolarPV] = p.PVSystemKW * 1000 * p.PVCostPerWatt
	case types.SourceSolarThermal:
		costs[types.SubsystemSolarThermalCollector] = area * p.SolarThermalCostPerSqft
		if cfg.HasOption(types.OptionThermalStorage) {
			costs[types.SubsystemThermalStorage] = generatorKW(area, p) * cfg.ReserveDays * p.ThermalStorageCostPerKWDay
		}
		if cfg.HasOption(types.OptionChilledBeams) {
			costs[types.SubsystemChilledBeams] = area * p.ChilledBeamCoverageFactor * p.ChilledBeamCostPerSqft
		}
		if cfg.HasOption(types.OptionStirlingGenerator) {
			costs[types.SubsystemStirlingGenerator] = generatorKW(area, p) * p.StirlingGeneratorCostPerKW
		}
		if cfg.HasOption(types.OptionStirlingChiller) {
			costs[types.SubsystemStirlingChiller] = chillerKW(area, p) * p.StirlingChillerCostPerKW
		}
	default:
		return types.CostBreakdown{}, &types.ConfigurationError{
			Field:  "primaryEnergySource",
			Value:  string(cfg.PrimaryEnergySource),
			Reason: "unknown energy source",
		}
	}

	var avoided float64
	hvac := ConventionalHVACCost(area, p)
	if hvacAvoided(cfg.PrimaryEnergySource, p) {
		avoided = hvac
	} else {
		costs[types.SubsystemConventionalHVAC] = hvac
	}

	var total float64
	for _, s := range types.Subsystems {
		total += costs[s]
	}

	return types.CostBreakdown{
		Subsystems:      costs,
		TotalSystemCost: total,
		AvoidedHVACCost: avoided,
		NetSystemCost:   total - avoided,
	}, nil
}
