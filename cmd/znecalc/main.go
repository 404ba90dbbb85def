package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "znecalc",
		Short:        "Estimate energy use, cost and payback of zero-net-energy home configurations",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(paramsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// homeFlags are the flags shared by every command that builds a
// HomeConfiguration.
type homeFlags struct {
	quality     string
	source      string
	sqft        float64
	reserveDays float64
	excessKWH   float64
	options     []string
	paramsFile  string
}

func (f *homeFlags) register(cmd *cobra.Command, withSource bool) {
	cmd.Flags().StringVarP(&f.quality, "quality", "q", "traditional", "construction quality (traditional, energy_star, enerphit, passive_house)")
	if withSource {
		cmd.Flags().StringVarP(&f.source, "source", "s", "electric_grid", "primary energy source (electric_grid, solar_pv, solar_thermal)")
	}
	cmd.Flags().Float64VarP(&f.sqft, "sqft", "a", 0, "conditioned floor area in square feet")
	cmd.Flags().Float64Var(&f.reserveDays, "reserve-days", 0, "days of thermal storage reserve (solar_thermal only)")
	cmd.Flags().Float64Var(&f.excessKWH, "excess-kwh", 0, "annual surplus exported to the grid in kWh")
	cmd.Flags().StringSliceVarP(&f.options, "option", "o", nil, "add-on subsystem, repeatable (chilled_beams, thermal_storage, stirling_chiller, stirling_generator)")
	cmd.Flags().StringVarP(&f.paramsFile, "params", "p", "", "YAML or JSON parameter table file (default: built-in reference table)")
	_ = cmd.MarkFlagRequired("sqft")
}

func evaluateCmd() *cobra.Command {
	var (
		f       homeFlags
		asJSON  bool
		server  string
		table   string
		timeout int
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one home configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.configuration()
			if err != nil {
				return err
			}
			if server != "" {
				return runEvaluateRemote(cmd.Context(), cmd.OutOrStdout(), server, table, cfg, asJSON, timeout)
			}
			return runEvaluate(cmd.Context(), cmd.OutOrStdout(), f.paramsFile, cfg, asJSON)
		},
	}

	f.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the evaluation as JSON")
	cmd.Flags().StringVar(&server, "server", "", "evaluate on a running znecalc-server at this URL instead of locally")
	cmd.Flags().StringVar(&table, "table", "", "parameter table name on the server (default: the server's default)")
	cmd.Flags().IntVar(&timeout, "timeout", 10, "server request timeout in seconds")
	return cmd
}

func compareCmd() *cobra.Command {
	var f homeFlags

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Evaluate the same home with every energy source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.source = "electric_grid"
			cfg, err := f.configuration()
			if err != nil {
				return err
			}
			return runCompare(cmd.Context(), cmd.OutOrStdout(), f.paramsFile, cfg)
		},
	}

	f.register(cmd, false)
	return cmd
}

func paramsCmd() *cobra.Command {
	var paramsFile string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print a parameter table as YAML after migration to the current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParams(cmd.OutOrStdout(), paramsFile)
		},
	}

	cmd.Flags().StringVarP(&paramsFile, "params", "p", "", "YAML or JSON parameter table file (default: built-in reference table)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd.OutOrStdout())
		},
	}
}
