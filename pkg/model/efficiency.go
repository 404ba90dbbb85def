package model

import (
	"strconv"

	"github.com/zeronethomes/znecalc/pkg/types"
)

// EfficiencyMultiplier returns the consumption multiplier for a construction
// quality. An unknown quality is a configuration error; it is never treated
// as traditional construction.
func EfficiencyMultiplier(quality types.ConstructionQuality, p Parameters) (float64, error) {
	m, ok := p.Efficiency[quality]
	if !ok {
		return 0, &types.ConfigurationError{
			Field:  "constructionQuality",
			Value:  string(quality),
			Reason: "unknown construction quality",
		}
	}
	return m, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}
