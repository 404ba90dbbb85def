package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zeronethomes/znecalc/pkg/log"
	"github.com/zeronethomes/znecalc/pkg/model"
	"github.com/zeronethomes/znecalc/pkg/types"
)

// evaluateRequest is the body of POST /api/evaluate. An empty Table uses the
// default parameter table.
type evaluateRequest struct {
	Table         string                  `json:"table"`
	Configuration types.HomeConfiguration `json:"configuration"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req evaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		log.Ctx(ctx).DebugContext(ctx, "invalid evaluate request", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	table, err := s.params.Table(ctx, req.Table)
	if err != nil {
		writeTableError(w, r, req.Table, err)
		return
	}

	eval, err := model.Evaluate(ctx, req.Configuration, table)
	if err != nil {
		var cerr *types.ConfigurationError
		if errors.As(err, &cerr) {
			log.Ctx(ctx).DebugContext(ctx, "rejected configuration", slog.String("field", cerr.Field), slog.String("reason", cerr.Reason))
			writeConfigurationError(w, cerr)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to evaluate configuration", slog.Any("error", err))
		writeJSONError(w, "failed to evaluate configuration", http.StatusInternalServerError)
		return
	}

	writeJSON(w, eval)
}
