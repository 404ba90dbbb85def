package model

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/zeronethomes/znecalc/pkg/types"
)

var minPositivePayback = decimal.New(1, -2)

// PaybackYears returns how many years of savings it takes to recover the net
// system cost, rounded to two decimals. A system that does not save money
// never pays back. A negative net cost gives a zero or negative payback, which
// means the system pays for itself immediately. A positive net cost never
// rounds down to zero; it reports at least one hundredth of a year.
func PaybackYears(netSystemCost, annualSavings float64) types.Payback {
	if annualSavings <= 0 || math.IsNaN(annualSavings) || math.IsNaN(netSystemCost) {
		return types.InfinitePayback
	}
	years := decimal.NewFromFloat(netSystemCost).
		Div(decimal.NewFromFloat(annualSavings)).
		Round(2)
	if netSystemCost > 0 && !years.IsPositive() {
		years = minPositivePayback
	}
	return types.Payback{Years: years.InexactFloat64()}
}
