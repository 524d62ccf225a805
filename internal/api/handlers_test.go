package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skybrief/wx-hub/internal/config"
	"github.com/skybrief/wx-hub/internal/observability"
	"github.com/skybrief/wx-hub/internal/storage/sqlite"
	"github.com/skybrief/wx-hub/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "api-test.db")
	storage, err := sqlite.NewReportStorage(dbPath, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	return NewHandler(nil, storage, nil, config.DefaultConfig(), logger.NewNop(), nil, observability.NewMetricsForTesting())
}

func TestDecodeReportMETAR(t *testing.T) {
	h := newTestHandler(t)

	body := `{"raw": "METAR KPHX 281751Z 11007KT 10SM FEW250 32/M04 A2992 RMK AO2 SLP104", "type": "metar"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decode", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.DecodeReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := rec.Body.String()
	assert.Contains(t, resp, `"type":"metar"`)
	assert.Contains(t, resp, `"tokens"`)
	assert.Contains(t, resp, "KPHX")
	assert.Contains(t, resp, "From 110° at 7 knots")
}

func TestDecodeReportDefaultsToMETAR(t *testing.T) {
	h := newTestHandler(t)

	body := `{"raw": "KPHX 281751Z 11007KT 10SM FEW250 32/M04 A2992"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decode", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.DecodeReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"metar"`)
}

func TestDecodeReportTAF(t *testing.T) {
	h := newTestHandler(t)

	body := `{"raw": "TAF KPIT 291730Z 2918/3024 15005KT 5SM HZ FEW020 FM291800 30015G25KT 3SM SHRA OVC015", "type": "taf"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decode", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.DecodeReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rapid change")
}

func TestDecodeReportRejectsEmptyRaw(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decode", strings.NewReader(`{"raw": "  "}`))
	rec := httptest.NewRecorder()

	h.DecodeReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeReportRejectsUnknownType(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decode", strings.NewReader(`{"raw": "KPHX 281751Z", "type": "notam"}`))
	rec := httptest.NewRecorder()

	h.DecodeReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeReportRejectsBadJSON(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decode", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.DecodeReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHistory(t *testing.T) {
	h := newTestHandler(t)

	require.NoError(t, h.reportStorage.RecordReport("CYYZ", "metar",
		"CYYZ 251900Z 27010KT 15SM FEW240 22/10 A3012", "VFR", time.Now().UTC()))

	r := chi.NewRouter()
	r.Get("/api/v1/history/{station}", h.GetHistory)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/cyyz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"station":"CYYZ"`)
	assert.Contains(t, body, `"count":1`)
	assert.Contains(t, body, "251900Z")
}

func TestGetHistoryBadLimit(t *testing.T) {
	h := newTestHandler(t)

	r := chi.NewRouter()
	r.Get("/api/v1/history/{station}", h.GetHistory)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/CYYZ?limit=bogus", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
