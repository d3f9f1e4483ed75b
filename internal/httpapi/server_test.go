package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/models"
	"unit-lookup/internal/records"
	interpretcode "unit-lookup/internal/workers/lookup/interpret-code"
	unitlookup "unit-lookup/internal/workers/lookup/unit-lookup"
	"unit-lookup/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeSource struct {
	records []models.UnitRecord
	err     error
}

func (f *fakeSource) Name() string { return "fake" }
func (f *fakeSource) FetchAll(context.Context) ([]models.UnitRecord, error) {
	return f.records, f.err
}
func (f *fakeSource) Close() error { return nil }

func createTestSource() *fakeSource {
	headers := []string{"Tipo Vivienda", "Torre", "Apartamento", "Propietario", "Estado", "Placa Carro"}
	return &fakeSource{records: []models.UnitRecord{
		models.NewUnitRecord(headers, []string{"torre", "1", "101", "Jane Doe", "V", "ABC123"}),
	}}
}

func createTestRouter(t *testing.T, src *fakeSource, readyChecksStore bool, webhook http.Handler) http.Handler {
	log := logger.NewTestLogger(t)
	return NewRouter(Deps{
		Lookup:           unitlookup.NewHandler(unitlookup.LoadConfig(), src, log, nil),
		Interpreter:      interpretcode.NewHandler(interpretcode.LoadConfig(), log),
		Registry:         registry.Default(),
		Source:           src,
		ReadyChecksStore: readyChecksStore,
		Webhook:          webhook,
		WebhookPath:      "/telegram/webhook",
		Logger:           log,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ==========================
// Health Tests
// ==========================

func TestHealth(t *testing.T) {
	rec := do(t, createTestRouter(t, createTestSource(), false, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	src := createTestSource()

	rec := do(t, createTestRouter(t, src, false, nil), http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	src.err = errors.New("sheets down")
	rec = do(t, createTestRouter(t, src, false, nil), http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code, "store not checked unless configured")

	rec = do(t, createTestRouter(t, src, true, nil), http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"fake"`)
}

func TestMetrics(t *testing.T) {
	rec := do(t, createTestRouter(t, createTestSource(), false, nil), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// ==========================
// Lookup Tests
// ==========================

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus unitlookup.Status
	}{
		{"found", `{"text": "1101"}`, http.StatusOK, unitlookup.StatusFound},
		{"found by plate", `{"text": "abc123", "requestId": "r-1"}`, http.StatusOK, unitlookup.StatusFound},
		{"not found", `{"text": "1102"}`, http.StatusOK, unitlookup.StatusNotFound},
		{"invalid code", `{"text": "hola"}`, http.StatusOK, unitlookup.StatusInvalid},
		{"missing text", `{}`, http.StatusBadRequest, ""},
		{"wrong type", `{"text": 1101}`, http.StatusBadRequest, ""},
		{"unknown field", `{"text": "1101", "chat": 1}`, http.StatusBadRequest, ""},
		{"malformed", `{"text": `, http.StatusBadRequest, ""},
	}

	h := createTestRouter(t, createTestSource(), false, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/lookup", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"code":"INVALID_REQUEST"`)
				return
			}
			var out unitlookup.Output
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.NotEmpty(t, out.RequestID)
		})
	}
}

func TestLookup_FoundBody(t *testing.T) {
	h := createTestRouter(t, createTestSource(), false, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/lookup", `{"text": "T1101", "requestId": "abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out unitlookup.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "abc", out.RequestID)
	require.NotNil(t, out.Summary)
	assert.Equal(t, "Jane Doe", out.Summary.Owner)
	assert.Equal(t, models.StatusNormal, out.Summary.Status.Code)
	assert.Equal(t, "ABC123", out.Summary.CarPlate)
	assert.Equal(t, 1, out.RecordsScanned)
}

func TestLookup_StoreUnavailable(t *testing.T) {
	src := createTestSource()
	src.err = errors.New("quota exceeded")

	rec := do(t, createTestRouter(t, src, false, nil), http.MethodPost, "/api/v1/lookup", `{"text": "1101"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"STORE_UNAVAILABLE"`)
}

func TestLookup_StoreUnreadable(t *testing.T) {
	src := createTestSource()
	src.err = fmt.Errorf("read units.csv: %w", records.ErrUnreadable)

	rec := do(t, createTestRouter(t, src, false, nil), http.MethodPost, "/api/v1/lookup", `{"text": "1101"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"STORE_READ_FAILED"`)
}

func TestInterpret(t *testing.T) {
	h := createTestRouter(t, createTestSource(), false, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/interpret", `{"text": "C90"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query":{"kind":"house","house":90},"rule":"house-prefix"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/interpret", `{"text": 5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==========================
// Webhook Tests
// ==========================

func TestWebhookRoute(t *testing.T) {
	var hits int
	webhook := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})

	h := createTestRouter(t, createTestSource(), false, webhook)
	rec := do(t, h, http.MethodPost, "/telegram/webhook", `{"update_id": 1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, hits)

	rec = do(t, createTestRouter(t, createTestSource(), false, nil), http.MethodPost, "/telegram/webhook", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
