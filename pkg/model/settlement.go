package model

import (
	"github.com/zeronethomes/znecalc/pkg/types"
)

// Settle converts a net annual energy balance into a grid bill or credit.
// A net draw is bought at the buy price and a net export is sold at the sell
// price; the two prices are never interchanged.
func Settle(netEnergyKWH float64, p Parameters) types.Settlement {
	if netEnergyKWH >= 0 {
		return types.Settlement{
			Direction: types.DirectionPurchase,
			EnergyKWH: netEnergyKWH,
			Amount:    netEnergyKWH * p.BuyPricePerKWH,
		}
	}
	return types.Settlement{
		Direction: types.DirectionExport,
		EnergyKWH: -netEnergyKWH,
		Amount:    -netEnergyKWH * p.SellPricePerKWH,
	}
}

// BaselineConfiguration is the traditional, grid-only home every other
// configuration of the same area is compared against.
func BaselineConfiguration(squareFootage float64) types.HomeConfiguration {
	return types.HomeConfiguration{
		ConstructionQuality: types.ConstructionTraditional,
		SquareFootage:       squareFootage,
		PrimaryEnergySource: types.SourceElectricGrid,
	}
}

// BaselineAnnualCost returns the annual grid cost of the baseline home.
func BaselineAnnualCost(squareFootage float64, p Parameters) (float64, error) {
	energy, err := AnnualConsumption(BaselineConfiguration(squareFootage), p)
	if err != nil {
		return 0, err
	}
	return Settle(energy.NetEnergyKWH, p).NetCost(), nil
}

// AnnualSavings returns how much less the settlement costs than the baseline.
// The result is negative when the configuration is worse than the baseline.
func AnnualSavings(baselineAnnualCost float64, settlement types.Settlement) float64 {
	return baselineAnnualCost - settlement.NetCost()
}
