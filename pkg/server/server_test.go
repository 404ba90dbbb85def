package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zeronethomes/znecalc/pkg/params"
	"github.com/zeronethomes/znecalc/pkg/storage"
	"github.com/zeronethomes/znecalc/pkg/storage/storagemock"
	"github.com/zeronethomes/znecalc/pkg/types"
)

func newTestServer(db *storagemock.MockDatabase) *Server {
	// avoid wrapping a nil *MockDatabase in a non-nil storage.Database
	var sdb storage.Database
	if db != nil {
		sdb = db
	}
	return &Server{
		params:     params.NewMap(sdb),
		listenAddr: ":8080",
		serverName: "znecalc/test",
	}
}

func TestHandleEvaluate(t *testing.T) {
	t.Run("Solar PV", func(t *testing.T) {
		srv := newTestServer(nil)
		body := `{"configuration": {"constructionQuality": "traditional", "squareFootage": 1422, "primaryEnergySource": "solar_pv"}}`
		req := httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body))
		w := httptest.NewRecorder()

		srv.setupHandler().ServeHTTP(w, req)

		resp := w.Result()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var eval types.Evaluation
		require.NoError(t, json.NewDecoder(w.Body).Decode(&eval))
		assert.Equal(t, types.DefaultParameterTableName, eval.TableName)
		assert.InDelta(t, 28000, eval.Energy.AnnualConsumptionKWH, 1e-6)
		assert.InDelta(t, 19500, eval.Costs.Subsystems[types.SubsystemSolarPV], 1e-6)
		assert.Equal(t, 6.43, eval.Financials.Payback.Years)
	})

	t.Run("Infinite Payback", func(t *testing.T) {
		srv := newTestServer(nil)
		body := `{"table": "reference", "configuration": {"constructionQuality": "traditional", "squareFootage": 1422, "primaryEnergySource": "electric_grid"}}`
		req := httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body))
		w := httptest.NewRecorder()

		srv.handleEvaluate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var raw map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
		financials := raw["financials"].(map[string]any)
		assert.Equal(t, "infinite", financials["payback"])
		warnings := raw["warnings"].([]any)
		require.Len(t, warnings, 1)
		assert.Equal(t, string(types.WarningNonPositiveSavings), warnings[0].(map[string]any)["code"])
	})

	t.Run("Configuration Error", func(t *testing.T) {
		srv := newTestServer(nil)
		body := `{"configuration": {"constructionQuality": "igloo", "squareFootage": 1422, "primaryEnergySource": "electric_grid"}}`
		req := httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body))
		w := httptest.NewRecorder()

		srv.handleEvaluate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp struct {
			Error string `json:"error"`
			Field string `json:"field"`
			Value string `json:"value"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "constructionQuality", resp.Field)
		assert.Equal(t, "igloo", resp.Value)
		assert.Contains(t, resp.Error, "unknown construction quality")
	})

	t.Run("Bad Body", func(t *testing.T) {
		srv := newTestServer(nil)
		for _, body := range []string{`not json`, `{"configuration": {}, "extra": 1}`} {
			req := httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body))
			w := httptest.NewRecorder()
			srv.handleEvaluate(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
	})

	t.Run("Table Not Found", func(t *testing.T) {
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "mars").Return(types.ParameterTable{}, storage.ErrTableNotFound)
		srv := newTestServer(db)

		body := `{"table": "mars", "configuration": {"constructionQuality": "traditional", "squareFootage": 1, "primaryEnergySource": "electric_grid"}}`
		req := httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.handleEvaluate(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		db.AssertExpectations(t)
	})

	t.Run("Invalid Table Name", func(t *testing.T) {
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "a/b").Return(types.ParameterTable{}, storage.ErrInvalidTableName)
		srv := newTestServer(db)

		body := `{"table": "a/b", "configuration": {"constructionQuality": "traditional", "squareFootage": 1, "primaryEnergySource": "electric_grid"}}`
		req := httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.handleEvaluate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"table"`)
	})

	t.Run("Storage Failure", func(t *testing.T) {
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "ohio").Return(types.ParameterTable{}, errors.New("timeout"))
		srv := newTestServer(db)

		body := `{"table": "ohio", "configuration": {"constructionQuality": "traditional", "squareFootage": 1, "primaryEnergySource": "electric_grid"}}`
		req := httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.handleEvaluate(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Invalid Stored Table", func(t *testing.T) {
		stored := types.DefaultParameterTable()
		stored.Name = "broken"
		stored.Values[types.ParamBuyPricePerKWH] = -1
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "broken").Return(stored, nil)
		srv := newTestServer(db)

		body := `{"table": "broken", "configuration": {"constructionQuality": "traditional", "squareFootage": 1, "primaryEnergySource": "electric_grid"}}`
		req := httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.handleEvaluate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), types.ParamBuyPricePerKWH)
	})

	t.Run("Wrong Method", func(t *testing.T) {
		srv := newTestServer(nil)
		req := httptest.NewRequest("GET", "/api/evaluate", nil)
		w := httptest.NewRecorder()
		srv.setupHandler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandleParams(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		srv := newTestServer(nil)
		req := httptest.NewRequest("GET", "/api/params", nil)
		w := httptest.NewRecorder()
		srv.handleGetParams(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var table types.ParameterTable
		require.NoError(t, json.NewDecoder(w.Body).Decode(&table))
		assert.Equal(t, types.DefaultParameterTable(), table)
	})

	t.Run("Not Found", func(t *testing.T) {
		srv := newTestServer(nil)
		req := httptest.NewRequest("GET", "/api/params?name=mars", nil)
		w := httptest.NewRecorder()
		srv.handleGetParams(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		db := new(storagemock.MockDatabase)
		db.On("GetParameterTable", mock.Anything, "a/b").Return(types.ParameterTable{}, storage.ErrInvalidTableName)
		srv := newTestServer(db)
		req := httptest.NewRequest("GET", "/api/params?name=a%2Fb", nil)
		w := httptest.NewRecorder()
		srv.handleGetParams(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleLists(t *testing.T) {
	t.Run("Tables", func(t *testing.T) {
		db := new(storagemock.MockDatabase)
		db.On("ListParameterTables", mock.Anything).Return([]string{"ohio"}, nil)
		srv := newTestServer(db)

		req := httptest.NewRequest("GET", "/api/list/tables", nil)
		w := httptest.NewRecorder()
		srv.handleListTables(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var list tableList
		require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
		assert.Equal(t, types.DefaultParameterTableName, list.Default)
		assert.Equal(t, []string{"ohio", types.DefaultParameterTableName}, list.Tables)
	})

	t.Run("Options", func(t *testing.T) {
		srv := newTestServer(nil)
		req := httptest.NewRequest("GET", "/api/list/options", nil)
		w := httptest.NewRecorder()
		srv.handleListOptions(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var list optionList
		require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
		assert.Equal(t, types.ConstructionQualities, list.ConstructionQualities)
		assert.Equal(t, types.EnergySources, list.EnergySources)
		assert.Equal(t, types.AllOptions, list.Options)
	})
}

func TestMiddleware(t *testing.T) {
	srv := newTestServer(nil)
	handler := srv.setupHandler()

	t.Run("Headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
		assert.Equal(t, "znecalc/test", w.Header().Get("Server"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Len(t, w.Header().Get(requestIDHeader), 36)
	})

	t.Run("Request ID Echoed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.Header.Set(requestIDHeader, "trace-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, "trace-123", w.Header().Get(requestIDHeader))
	})

	t.Run("Request ID Replaced", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.Header.Set(requestIDHeader, "bad id\nwith newline")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.NotEqual(t, "bad id\nwith newline", w.Header().Get(requestIDHeader))
		assert.Len(t, w.Header().Get(requestIDHeader), 36)
	})

	t.Run("Gzip", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/list/options", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
	})
}
