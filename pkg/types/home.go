package types

import (
	"math"
	"strings"
)

// ConstructionQuality represents the envelope standard a home is built to.
// The values are ordered from least to most efficient.
type ConstructionQuality string

const (
	ConstructionTraditional  ConstructionQuality = "traditional"
	ConstructionEnergyStar   ConstructionQuality = "energy_star"
	ConstructionEnerPHit     ConstructionQuality = "enerphit"
	ConstructionPassiveHouse ConstructionQuality = "passive_house"
)

// ConstructionQualities lists every construction quality in ordinal order.
var ConstructionQualities = []ConstructionQuality{
	ConstructionTraditional,
	ConstructionEnergyStar,
	ConstructionEnerPHit,
	ConstructionPassiveHouse,
}

// EnergySource represents the primary energy supply strategy of a home.
type EnergySource string

const (
	SourceElectricGrid EnergySource = "electric_grid"
	SourceSolarPV      EnergySource = "solar_pv"
	SourceSolarThermal EnergySource = "solar_thermal"
)

// EnergySources lists every supported energy source.
var EnergySources = []EnergySource{
	SourceElectricGrid,
	SourceSolarPV,
	SourceSolarThermal,
}

// Option is an add-on subsystem. Options only have an effect when the primary
// energy source is SourceSolarThermal.
type Option string

const (
	OptionChilledBeams      Option = "chilled_beams"
	OptionThermalStorage    Option = "thermal_storage"
	OptionStirlingChiller   Option = "stirling_chiller"
	OptionStirlingGenerator Option = "stirling_generator"
)

// AllOptions lists every supported option.
var AllOptions = []Option{
	OptionChilledBeams,
	OptionThermalStorage,
	OptionStirlingChiller,
	OptionStirlingGenerator,
}

// HomeConfiguration describes the home being evaluated.
type HomeConfiguration struct {
	ConstructionQuality ConstructionQuality `json:"constructionQuality"`
	SquareFootage       float64             `json:"squareFootage"`
	PrimaryEnergySource EnergySource        `json:"primaryEnergySource"`
	// ReserveDays sizes thermal storage. Only used with SourceSolarThermal.
	ReserveDays float64 `json:"reserveDays"`
	// ExcessCapacityKWH is the annual surplus exported to the grid. Ignored
	// with SourceSolarThermal where generation is modeled instead.
	ExcessCapacityKWH float64  `json:"excessCapacityKWH"`
	Options           []Option `json:"options,omitempty"`
}

// HasOption reports whether opt was selected.
func (c HomeConfiguration) HasOption(opt Option) bool {
	for _, o := range c.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Validate checks that every enumerated field holds a known value and that no
// numeric input is negative.
func (c HomeConfiguration) Validate() error {
	if !validConstructionQuality(c.ConstructionQuality) {
		return &ConfigurationError{Field: "constructionQuality", Value: string(c.ConstructionQuality), Reason: "unknown construction quality"}
	}
	if !validEnergySource(c.PrimaryEnergySource) {
		return &ConfigurationError{Field: "primaryEnergySource", Value: string(c.PrimaryEnergySource), Reason: "unknown energy source"}
	}
	if err := nonNegative("squareFootage", c.SquareFootage); err != nil {
		return err
	}
	if err := nonNegative("reserveDays", c.ReserveDays); err != nil {
		return err
	}
	if err := nonNegative("excessCapacityKWH", c.ExcessCapacityKWH); err != nil {
		return err
	}
	for _, o := range c.Options {
		if !validOption(o) {
			return &ConfigurationError{Field: "options", Value: string(o), Reason: "unknown option"}
		}
	}
	return nil
}

// ParseConstructionQuality accepts either the canonical value or the display
// label (e.g. "Passive House").
func ParseConstructionQuality(s string) (ConstructionQuality, error) {
	q := ConstructionQuality(normalizeEnum(s))
	if !validConstructionQuality(q) {
		return "", &ConfigurationError{Field: "constructionQuality", Value: s, Reason: "unknown construction quality"}
	}
	return q, nil
}

// ParseEnergySource accepts either the canonical value or the display label
// (e.g. "Solar PV").
func ParseEnergySource(s string) (EnergySource, error) {
	src := EnergySource(normalizeEnum(s))
	if !validEnergySource(src) {
		return "", &ConfigurationError{Field: "primaryEnergySource", Value: s, Reason: "unknown energy source"}
	}
	return src, nil
}

// ParseOption accepts either the canonical value or the display label (e.g.
// "Chilled Beams").
func ParseOption(s string) (Option, error) {
	o := Option(normalizeEnum(s))
	if !validOption(o) {
		return "", &ConfigurationError{Field: "options", Value: s, Reason: "unknown option"}
	}
	return o, nil
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	// "Electric Grid" and "Grid" both show up in forms
	if s == "grid" {
		return string(SourceElectricGrid)
	}
	return s
}

func validConstructionQuality(q ConstructionQuality) bool {
	for _, v := range ConstructionQualities {
		if v == q {
			return true
		}
	}
	return false
}

func validEnergySource(s EnergySource) bool {
	for _, v := range EnergySources {
		if v == s {
			return true
		}
	}
	return false
}

func validOption(o Option) bool {
	for _, v := range AllOptions {
		if v == o {
			return true
		}
	}
	return false
}

func nonNegative(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return &ConfigurationError{Field: field, Value: formatFloat(v), Reason: "must be a finite non-negative number"}
	}
	return nil
}
