package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lambdaf-dashboard/internal/domain"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/service"
	"lambdaf-dashboard/internal/view"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type lambdaStub struct {
	snap         service.Snapshot
	refreshErr   error
	refreshCalls int
}

func (s *lambdaStub) Backend() string { return "postgres" }

func (s *lambdaStub) Snapshot(context.Context) service.Snapshot { return s.snap }

func (s *lambdaStub) Refresh(context.Context) error {
	s.refreshCalls++
	return s.refreshErr
}

func newTestRouter(reader LambdaReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(trace.NewNoopTracerProvider().Tracer("handler-test"), reader)
	h.RegisterRoutes(r)
	return r
}

func stubSnapshot() service.Snapshot {
	return service.Snapshot{
		Evaluation: lambdaf.Evaluate([]domain.RawRecord{
			{Timestamp: "2026-02-12T10:05:00Z", LambdaF: 0.42},
			{Timestamp: "2026-02-13T10:05:00Z", LambdaF: 0.68, SourceScores: map[string]any{"fearAndGreed": 80.0}},
		}, domain.VariantBreakdown),
		Backend:     "firestore",
		Variant:     "breakdown",
		GeneratedAt: time.Date(2026, 2, 13, 11, 0, 0, 0, time.UTC),
	}
}

func TestGetDashboard(t *testing.T) {
	r := newTestRouter(&lambdaStub{snap: stubSnapshot()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/lambda-f", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("expected no-store, got %q", got)
	}

	var body view.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Metric == nil || body.Metric.Value != "0.680" || body.Metric.Delta != "0.260 vs. previous day" {
		t.Fatalf("unexpected metric: %+v", body.Metric)
	}
	if body.Status == nil || body.Status.Tier != domain.TierRisky {
		t.Fatalf("unexpected status: %+v", body.Status)
	}
	if len(body.Table.Rows) != 2 || body.Table.Rows[0].LambdaF != "0.680" {
		t.Fatalf("unexpected rows: %+v", body.Table.Rows)
	}
}

func TestGetDashboardEmptyWithWarning(t *testing.T) {
	snap := service.Snapshot{
		Evaluation: lambdaf.Evaluate(nil, domain.VariantBreakdown),
		Warning:    "fetch λF records from firestore: unavailable",
	}
	r := newTestRouter(&lambdaStub{snap: snap})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/lambda-f", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("fetch failures should still render, got %d", w.Code)
	}
	var body view.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Notice != view.NoHistoryText || body.Warning == "" || body.Metric != nil {
		t.Fatalf("unexpected empty dashboard: %+v", body)
	}
}

func TestGetSeries(t *testing.T) {
	r := newTestRouter(&lambdaStub{snap: stubSnapshot()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/lambda-f/series", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Series         []map[string]any         `json:"series"`
		Contributions  []domain.ContributionSet `json:"contributions"`
		Classification *domain.Classification   `json:"classification"`
		HasHistory     bool                     `json:"has_history"`
		Backend        string                   `json:"backend"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Series) != 2 || len(body.Contributions) != 2 {
		t.Fatalf("expected 2 samples and contributions, got %d/%d", len(body.Series), len(body.Contributions))
	}
	if body.Classification == nil || body.Classification.Tier != domain.TierRisky {
		t.Fatalf("unexpected classification: %+v", body.Classification)
	}
	if !body.HasHistory || body.Backend != "firestore" {
		t.Fatalf("unexpected metadata: %+v", body)
	}
}

func TestRefresh(t *testing.T) {
	stub := &lambdaStub{snap: stubSnapshot()}
	r := newTestRouter(stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/lambda-f/refresh", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.refreshCalls != 1 {
		t.Fatalf("expected one refresh, got %d", stub.refreshCalls)
	}
}

func TestRefreshError(t *testing.T) {
	r := newTestRouter(&lambdaStub{refreshErr: errors.New("redis down")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/lambda-f/refresh", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRefreshThrottled(t *testing.T) {
	r := newTestRouter(&lambdaStub{refreshErr: fmt.Errorf("%w: context deadline exceeded", service.ErrRefreshThrottled)})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/lambda-f/refresh", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestLambdaRoutesServiceUnavailable(t *testing.T) {
	r := newTestRouter(nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/lambda-f"},
		{http.MethodGet, "/api/lambda-f/series"},
		{http.MethodPost, "/api/lambda-f/refresh"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: expected 503, got %d", tc.method, tc.path, w.Code)
		}
	}
}
