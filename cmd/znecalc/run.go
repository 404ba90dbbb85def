package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/zeronethomes/znecalc/pkg/common"
	"github.com/zeronethomes/znecalc/pkg/model"
	"github.com/zeronethomes/znecalc/pkg/params"
	"github.com/zeronethomes/znecalc/pkg/types"
)

// configuration builds the HomeConfiguration the flags describe.
func (f *homeFlags) configuration() (types.HomeConfiguration, error) {
	quality, err := types.ParseConstructionQuality(f.quality)
	if err != nil {
		return types.HomeConfiguration{}, err
	}
	source, err := types.ParseEnergySource(f.source)
	if err != nil {
		return types.HomeConfiguration{}, err
	}
	cfg := types.HomeConfiguration{
		ConstructionQuality: quality,
		SquareFootage:       f.sqft,
		PrimaryEnergySource: source,
		ReserveDays:         f.reserveDays,
		ExcessCapacityKWH:   f.excessKWH,
	}
	for _, o := range f.options {
		opt, err := types.ParseOption(o)
		if err != nil {
			return types.HomeConfiguration{}, err
		}
		if !cfg.HasOption(opt) {
			cfg.Options = append(cfg.Options, opt)
		}
	}
	return cfg, cfg.Validate()
}

// loadTable returns the table in path, or the reference table when path is
// empty.
func loadTable(path string) (types.ParameterTable, error) {
	if path == "" {
		return types.DefaultParameterTable(), nil
	}
	table, err := params.LoadFile(path)
	if err != nil {
		return types.ParameterTable{}, fmt.Errorf("loading parameters: %w", err)
	}
	return table, nil
}

func runEvaluate(ctx context.Context, w io.Writer, paramsFile string, cfg types.HomeConfiguration, asJSON bool) error {
	table, err := loadTable(paramsFile)
	if err != nil {
		return err
	}
	eval, err := model.Evaluate(ctx, cfg, table)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, eval)
	}
	printEvaluation(w, eval)
	return nil
}

// runEvaluateRemote posts the configuration to a znecalc-server.
func runEvaluateRemote(ctx context.Context, w io.Writer, server, table string, cfg types.HomeConfiguration, asJSON bool, timeoutSeconds int) error {
	eval, err := evaluateRemote(ctx, server, table, cfg, time.Duration(timeoutSeconds)*time.Second)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, eval)
	}
	printEvaluation(w, eval)
	return nil
}

func evaluateRemote(ctx context.Context, server, table string, cfg types.HomeConfiguration, timeout time.Duration) (types.Evaluation, error) {
	endpoint, err := url.JoinPath(server, "/api/evaluate")
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("invalid server url: %w", err)
	}
	body, err := json.Marshal(struct {
		Table         string                  `json:"table,omitempty"`
		Configuration types.HomeConfiguration `json:"configuration"`
	}{Table: table, Configuration: cfg})
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := common.HTTPClient(timeout).Do(req)
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("calling server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return types.Evaluation{}, fmt.Errorf("server returned %s", resp.Status)
		}
		return types.Evaluation{}, fmt.Errorf("server returned %s: %s", resp.Status, apiErr.Error)
	}

	var eval types.Evaluation
	if err := json.NewDecoder(resp.Body).Decode(&eval); err != nil {
		return types.Evaluation{}, fmt.Errorf("decoding response: %w", err)
	}
	return eval, nil
}

// runCompare evaluates cfg once per energy source.
func runCompare(ctx context.Context, w io.Writer, paramsFile string, cfg types.HomeConfiguration) error {
	table, err := loadTable(paramsFile)
	if err != nil {
		return err
	}
	evals := make([]types.Evaluation, 0, len(types.EnergySources))
	for _, src := range types.EnergySources {
		c := cfg
		c.PrimaryEnergySource = src
		eval, err := model.Evaluate(ctx, c, table)
		if err != nil {
			return fmt.Errorf("evaluating %s: %w", src, err)
		}
		evals = append(evals, eval)
	}
	printComparison(w, evals)
	return nil
}

func runParams(w io.Writer, paramsFile string) error {
	table, err := loadTable(paramsFile)
	if err != nil {
		return err
	}
	b, err := params.Marshal(table)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func runVersion(w io.Writer) error {
	_, err := fmt.Fprintln(w, common.ServerName())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
