package model

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zeronethomes/znecalc/pkg/log"
	"github.com/zeronethomes/znecalc/pkg/types"
)

// Evaluate runs the full model for one configuration: energy, capital costs,
// grid settlement, savings against the baseline home and payback. It either
// returns a complete evaluation or a *types.ConfigurationError.
//
// Degenerate but valid outcomes (no savings, a system cheaper than the HVAC it
// replaces) are reported in Evaluation.Warnings rather than as errors.
func Evaluate(ctx context.Context, cfg types.HomeConfiguration, table types.ParameterTable) (types.Evaluation, error) {
	if err := cfg.Validate(); err != nil {
		return types.Evaluation{}, err
	}
	p, err := Resolve(table)
	if err != nil {
		return types.Evaluation{}, err
	}

	energy, err := AnnualConsumption(cfg, p)
	if err != nil {
		return types.Evaluation{}, err
	}
	costs, err := SystemCosts(cfg, p)
	if err != nil {
		return types.Evaluation{}, err
	}
	financials, err := Financials(cfg, energy, costs, p)
	if err != nil {
		return types.Evaluation{}, err
	}

	eval := types.Evaluation{
		Configuration: cfg,
		TableName:     table.Name,
		TableVersion:  table.Version,
		Energy:        energy,
		Costs:         costs,
		Financials:    financials,
		Warnings:      warnings(costs, financials),
	}

	for _, w := range eval.Warnings {
		log.Ctx(ctx).WarnContext(ctx, "degenerate result", slog.String("code", string(w.Code)), slog.String("message", w.Message))
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"evaluated configuration",
		slog.String("table", table.Name),
		slog.String("source", string(cfg.PrimaryEnergySource)),
		slog.String("quality", string(cfg.ConstructionQuality)),
		slog.Float64("squareFootage", cfg.SquareFootage),
		slog.Float64("annualConsumptionKWH", energy.AnnualConsumptionKWH),
		slog.Float64("netEnergyKWH", energy.NetEnergyKWH),
		slog.Float64("netSystemCost", costs.NetSystemCost),
		slog.Float64("annualSavings", financials.AnnualSavings),
		slog.String("payback", financials.Payback.String()),
	)
	return eval, nil
}

// Financials settles the configuration's net energy with the grid and compares
// it against the baseline home of the same area.
func Financials(cfg types.HomeConfiguration, energy types.EnergyResult, costs types.CostBreakdown, p Parameters) (types.FinancialSummary, error) {
	baseline, err := BaselineAnnualCost(cfg.SquareFootage, p)
	if err != nil {
		return types.FinancialSummary{}, fmt.Errorf("failed to compute baseline cost: %w", err)
	}
	settlement := Settle(energy.NetEnergyKWH, p)
	savings := AnnualSavings(baseline, settlement)

	return types.FinancialSummary{
		Settlement:         settlement,
		AnnualGridCost:     settlement.NetCost(),
		BaselineAnnualCost: baseline,
		AnnualSavings:      savings,
		Payback:            PaybackYears(costs.NetSystemCost, savings),
		LifetimeNetSavings: savings*p.SystemLifetimeYears - costs.NetSystemCost,
	}, nil
}

func warnings(costs types.CostBreakdown, financials types.FinancialSummary) []types.Warning {
	var ws []types.Warning
	if financials.AnnualSavings <= 0 {
		ws = append(ws, types.Warning{
			Code:    types.WarningNonPositiveSavings,
			Message: fmt.Sprintf("annual savings of %.2f never recover the system cost", financials.AnnualSavings),
		})
	}
	if costs.NetSystemCost < 0 {
		ws = append(ws, types.Warning{
			Code:    types.WarningNegativeNetCost,
			Message: fmt.Sprintf("system costs %.2f less than the conventional HVAC it replaces", -costs.NetSystemCost),
		})
	}
	return ws
}
