package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/zeronethomes/znecalc/pkg/log"
	"github.com/zeronethomes/znecalc/pkg/params"
	"github.com/zeronethomes/znecalc/pkg/types"
)

func (s *Server) handleGetParams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.URL.Query().Get("name")

	table, err := s.params.Table(ctx, name)
	if err != nil {
		writeTableError(w, r, name, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	writeJSON(w, table)
}

// writeTableError maps a failed table lookup to a response: a bad name is the
// caller's fault, a missing table is 404 and anything else is logged as a
// storage failure.
func writeTableError(w http.ResponseWriter, r *http.Request, name string, err error) {
	ctx := r.Context()
	var cerr *types.ConfigurationError
	switch {
	case errors.As(err, &cerr):
		log.Ctx(ctx).DebugContext(ctx, "rejected parameter table name", slog.String("table", name))
		writeConfigurationError(w, cerr)
	case params.IsNotFound(err):
		writeJSONError(w, "parameter table not found", http.StatusNotFound)
	default:
		log.Ctx(ctx).ErrorContext(ctx, "failed to get parameter table", slog.String("table", name), slog.Any("error", err))
		writeJSONError(w, "failed to get parameter table", http.StatusInternalServerError)
	}
}

// tableList is the response of GET /api/list/tables.
type tableList struct {
	Default string   `json:"default"`
	Tables  []string `json:"tables"`
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, tableList{
		Default: s.params.DefaultName(),
		Tables:  s.params.Names(r.Context()),
	})
}

// optionList is the response of GET /api/list/options: every value a form
// needs to build a HomeConfiguration.
type optionList struct {
	ConstructionQualities []types.ConstructionQuality `json:"constructionQualities"`
	EnergySources         []types.EnergySource        `json:"energySources"`
	Options               []types.Option              `json:"options"`
}

func (s *Server) handleListOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, optionList{
		ConstructionQualities: types.ConstructionQualities,
		EnergySources:         types.EnergySources,
		Options:               types.AllOptions,
	})
}
