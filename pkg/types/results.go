package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// EnergyResult holds the annual energy figures for a configuration.
type EnergyResult struct {
	// BaselineConsumptionKWH is the reference home's consumption scaled to the
	// configured area, before any efficiency or generation adjustment.
	BaselineConsumptionKWH float64 `json:"baselineConsumptionKWH"`
	AnnualConsumptionKWH   float64 `json:"annualConsumptionKWH"`
	OnSiteGenerationKWH    float64 `json:"onSiteGenerationKWH"`
	// NetEnergyKWH is positive for a net draw from the grid and negative for a
	// net export.
	NetEnergyKWH float64 `json:"netEnergyKWH"`
}

// Subsystem names a capital cost line item.
type Subsystem string

const (
	SubsystemSolarPV               Subsystem = "solar_pv"
	SubsystemSolarThermalCollector Subsystem = "solar_thermal_collector"
	SubsystemThermalStorage        Subsystem = "thermal_storage"
	SubsystemChilledBeams          Subsystem = "chilled_beams"
	SubsystemStirlingGenerator     Subsystem = "stirling_generator"
	SubsystemStirlingChiller       Subsystem = "stirling_chiller"
	SubsystemConventionalHVAC      Subsystem = "conventional_hvac"
)

// Subsystems lists every cost line item in display order.
var Subsystems = []Subsystem{
	SubsystemSolarPV,
	SubsystemSolarThermalCollector,
	SubsystemThermalStorage,
	SubsystemChilledBeams,
	SubsystemStirlingGenerator,
	SubsystemStirlingChiller,
	SubsystemConventionalHVAC,
}

// CostBreakdown is the capital cost of a configuration. Every subsystem is
// present in Subsystems; those not used by the configuration are zero.
type CostBreakdown struct {
	Subsystems      map[Subsystem]float64 `json:"subsystems"`
	TotalSystemCost float64               `json:"totalSystemCost"`
	// AvoidedHVACCost is the conventional HVAC expenditure the configuration
	// displaces.
	AvoidedHVACCost float64 `json:"avoidedHVACCost"`
	NetSystemCost   float64 `json:"netSystemCost"`
}

// SettlementDirection reports whether the home buys from or sells to the grid.
type SettlementDirection string

const (
	DirectionPurchase SettlementDirection = "purchase"
	DirectionExport   SettlementDirection = "export"
)

// Settlement is the annual grid bill or credit.
type Settlement struct {
	Direction SettlementDirection `json:"direction"`
	// EnergyKWH is the energy bought or sold, always non-negative.
	EnergyKWH float64 `json:"energyKWH"`
	// Amount is the bill or the credit, always non-negative.
	Amount float64 `json:"amount"`
}

// NetCost returns the settlement as a signed cost: positive for a bill and
// negative for a credit.
func (s Settlement) NetCost() float64 {
	if s.Direction == DirectionExport {
		return -s.Amount
	}
	return s.Amount
}

// Payback is a payback horizon in years. A system that never saves money has
// an infinite payback.
type Payback struct {
	Years    float64
	Infinite bool
}

// InfinitePayback is the payback of a system that never pays for itself.
var InfinitePayback = Payback{Infinite: true}

// Immediate reports whether the system pays for itself on day one.
func (p Payback) Immediate() bool {
	return !p.Infinite && p.Years <= 0
}

func (p Payback) String() string {
	switch {
	case p.Infinite:
		return "infinite"
	case p.Immediate():
		return "immediate"
	default:
		return fmt.Sprintf("%.2f years", p.Years)
	}
}

// MarshalJSON encodes an infinite payback as the string "infinite" and any
// other payback as a number of years.
func (p Payback) MarshalJSON() ([]byte, error) {
	if p.Infinite {
		return []byte(`"infinite"`), nil
	}
	return []byte(strconv.FormatFloat(p.Years, 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Payback) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte(`"infinite"`)) {
		*p = InfinitePayback
		return nil
	}
	var years float64
	if err := json.Unmarshal(b, &years); err != nil {
		return fmt.Errorf("invalid payback: %w", err)
	}
	*p = Payback{Years: years}
	return nil
}

// FinancialSummary holds the operating economics of a configuration.
type FinancialSummary struct {
	Settlement Settlement `json:"settlement"`
	// AnnualGridCost is the signed annual grid cost; a credit is negative.
	AnnualGridCost float64 `json:"annualGridCost"`
	// BaselineAnnualCost is the grid cost of a traditional, grid-only home of
	// the same area.
	BaselineAnnualCost float64 `json:"baselineAnnualCost"`
	// AnnualSavings may be negative when the configuration is worse than the
	// baseline.
	AnnualSavings      float64 `json:"annualSavings"`
	Payback            Payback `json:"payback"`
	LifetimeNetSavings float64 `json:"lifetimeNetSavings"`
}

// Evaluation is the complete result for one configuration.
type Evaluation struct {
	Configuration HomeConfiguration `json:"configuration"`
	TableName     string            `json:"tableName"`
	TableVersion  int               `json:"tableVersion"`
	Energy        EnergyResult      `json:"energy"`
	Costs         CostBreakdown     `json:"costs"`
	Financials    FinancialSummary  `json:"financials"`
	Warnings      []Warning         `json:"warnings,omitempty"`
}
