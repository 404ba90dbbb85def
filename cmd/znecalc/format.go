package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/zeronethomes/znecalc/pkg/types"
)

// formatMoney renders a dollar amount rounded to cents, e.g. "$19,500.00" or
// "-$10,238.40".
func formatMoney(v float64) string {
	cents := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if cents.IsNegative() {
		sign = "-"
		cents = cents.Neg()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", cents.InexactFloat64())
}

// formatKWH renders whole kilowatt hours, e.g. "40,000 kWh".
func formatKWH(v float64) string {
	return humanize.FormatFloat("#,###.", decimal.NewFromFloat(v).Round(0).InexactFloat64()) + " kWh"
}

func printEvaluation(w io.Writer, e types.Evaluation) {
	cfg := e.Configuration
	fmt.Fprintf(w, "HOME: %s, %s sq ft, %s (table %s v%d)\n",
		cfg.ConstructionQuality, humanize.FormatFloat("#,###.", cfg.SquareFootage), cfg.PrimaryEnergySource, e.TableName, e.TableVersion)
	if len(cfg.Options) > 0 {
		fmt.Fprintf(w, "  options: %v\n", cfg.Options)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ENERGY")
	fmt.Fprintf(w, "  Baseline consumption:  %s\n", formatKWH(e.Energy.BaselineConsumptionKWH))
	fmt.Fprintf(w, "  Annual consumption:    %s\n", formatKWH(e.Energy.AnnualConsumptionKWH))
	fmt.Fprintf(w, "  On-site generation:    %s\n", formatKWH(e.Energy.OnSiteGenerationKWH))
	fmt.Fprintf(w, "  Net energy:            %s\n", formatKWH(e.Energy.NetEnergyKWH))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CAPITAL COST")
	for _, s := range types.Subsystems {
		if v := e.Costs.Subsystems[s]; v != 0 {
			fmt.Fprintf(w, "  %-24s %14s\n", s, formatMoney(v))
		}
	}
	fmt.Fprintf(w, "  %-24s %14s\n", "total", formatMoney(e.Costs.TotalSystemCost))
	if e.Costs.AvoidedHVACCost != 0 {
		fmt.Fprintf(w, "  %-24s %14s\n", "avoided hvac", formatMoney(-e.Costs.AvoidedHVACCost))
	}
	fmt.Fprintf(w, "  %-24s %14s\n", "net", formatMoney(e.Costs.NetSystemCost))
	fmt.Fprintln(w)

	f := e.Financials
	fmt.Fprintln(w, "FINANCIALS")
	fmt.Fprintf(w, "  Grid %-18s %s (%s)\n", f.Settlement.Direction+":", formatMoney(f.Settlement.Amount), formatKWH(f.Settlement.EnergyKWH))
	fmt.Fprintf(w, "  Baseline annual cost:  %s\n", formatMoney(f.BaselineAnnualCost))
	fmt.Fprintf(w, "  Annual savings:        %s\n", formatMoney(f.AnnualSavings))
	fmt.Fprintf(w, "  Payback:               %s\n", f.Payback)
	fmt.Fprintf(w, "  Lifetime net savings:  %s\n", formatMoney(f.LifetimeNetSavings))

	if len(e.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(e.Warnings))
		for _, warn := range e.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", warn.Code, warn.Message)
		}
	}
}

func printComparison(w io.Writer, evals []types.Evaluation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "source\tconsumption\tnet system cost\tannual grid cost\tannual savings\tpayback\t")
	for _, e := range evals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			e.Configuration.PrimaryEnergySource,
			formatKWH(e.Energy.AnnualConsumptionKWH),
			formatMoney(e.Costs.NetSystemCost),
			formatMoney(e.Financials.AnnualGridCost),
			formatMoney(e.Financials.AnnualSavings),
			e.Financials.Payback,
		)
	}
	tw.Flush()
}
