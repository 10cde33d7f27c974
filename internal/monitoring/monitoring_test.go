package monitoring_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/paintstore/internal/monitoring"
	"github.com/charlesng35/paintstore/internal/monitoring/checks"
)

func setupModule(t *testing.T) *monitoring.Module {
	t.Helper()

	mod, err := monitoring.NewModule(monitoring.Options{DisableGoCollector: true, DisableProcessCollector: true})
	require.NoError(t, err)
	monitoring.SetModule(mod)
	t.Cleanup(func() { monitoring.SetModule(nil) })
	return mod
}

func TestSummaryAggregatesMetrics(t *testing.T) {
	mod := setupModule(t)

	monitoring.RecordPushSend(monitoring.ResultSuccess, "", 20*time.Millisecond)
	monitoring.RecordPushSend("invalid_argument", "topic is invalid", 40*time.Millisecond)
	monitoring.RecordTriggerEvent(monitoring.TriggerAccepted)
	monitoring.RecordTriggerEvent(monitoring.TriggerAccepted)
	monitoring.RecordTriggerEvent(monitoring.TriggerSkipped)
	monitoring.RecordTriggerEvent(monitoring.TriggerInvalid)
	monitoring.RecordRecommendation("similar", monitoring.ResultSuccess)
	monitoring.RecordRecommendation("popular", monitoring.ResultFailure)
	monitoring.RecordIndexRefresh(monitoring.ResultSuccess, "", 12, time.Second)

	summary := mod.Summary()
	require.Equal(t, uint64(1), summary.Push.Sent)
	require.Equal(t, uint64(1), summary.Push.Failed)
	require.InDelta(t, 0.03, summary.Push.AverageLatencySeconds, 0.0001)
	require.NotNil(t, summary.Push.LastFailure)
	require.Equal(t, "invalid_argument", summary.Push.LastFailure.Class)

	require.Equal(t, monitoring.TriggerSummary{Accepted: 2, Skipped: 1, Invalid: 1}, summary.Triggers)

	require.Len(t, summary.Recommendations, 2)
	require.Equal(t, "popular", summary.Recommendations[0].Endpoint)
	require.Equal(t, uint64(1), summary.Recommendations[0].Failure)

	require.Equal(t, 12, summary.Index.Products)
	require.Equal(t, uint64(1), summary.Index.TotalRuns)
}

func TestPushCounterLabels(t *testing.T) {
	mod := setupModule(t)

	monitoring.RecordPushSend("  UNAVAILABLE ", "backend busy", time.Millisecond)
	monitoring.RecordPushSend("", "", time.Millisecond)

	count, err := testutil.GatherAndCount(mod.Registry(), "paintstore_push_sends_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestHandlerServesMetrics(t *testing.T) {
	mod := setupModule(t)
	monitoring.ObserveAPILatency("get", "/popular", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	mod.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `paintstore_api_latency_seconds_count{method="GET",path="popular",status="200"} 1`)

	var nilModule *monitoring.Module
	rec = httptest.NewRecorder()
	nilModule.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthManagerEvaluate(t *testing.T) {
	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.NewCheck("firebase", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	}))
	manager.RegisterReadiness(monitoring.NewCheck("orders", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: "slow"}
	}))

	report := manager.EvaluateReadiness(context.Background())
	require.False(t, report.Success)
	require.Equal(t, monitoring.StatusDegraded, report.Status)
	require.Len(t, report.Checks, 2)
	require.Equal(t, "orders", report.Checks[1].Component)

	live := manager.EvaluateLiveness(context.Background())
	require.True(t, live.Success)
	require.Empty(t, live.Checks)
}

func TestHealthCheckRecoversPanics(t *testing.T) {
	manager := monitoring.NewHealthManager()
	manager.RegisterLiveness(monitoring.NewCheck("boom", func(ctx context.Context) monitoring.ProbeResult {
		panic("exploded")
	}))
	manager.RegisterLiveness(monitoring.NewCheck("empty", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{}
	}))

	report := manager.EvaluateLiveness(context.Background())
	require.Equal(t, monitoring.StatusDown, report.Status)
	require.Equal(t, "exploded", report.Checks[0].Details)
	require.Equal(t, "boom", report.Checks[0].Component)
	require.Equal(t, monitoring.StatusDown, report.Checks[1].Status)
}

func TestResultFromError(t *testing.T) {
	require.Equal(t, monitoring.StatusUp, monitoring.ResultFromError("x", nil, time.Second).Status)
	require.Equal(t, monitoring.StatusDegraded, monitoring.ResultFromError("x", context.DeadlineExceeded, 0).Status)

	res := monitoring.ResultFromError("x", errors.New("refused"), -time.Second)
	require.Equal(t, monitoring.StatusDown, res.Status)
	require.Zero(t, res.Duration)
}

func TestFirebaseCheck(t *testing.T) {
	up := checks.Firebase(func() error { return nil }).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, up.Status)

	down := checks.Firebase(func() error { return errors.New("no credentials") }).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, down.Status)
	require.Equal(t, "no credentials", down.Details)

	missing := checks.Firebase(nil).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, missing.Status)
}

func TestRecommendationIndexCheck(t *testing.T) {
	setupModule(t)
	check := checks.RecommendationIndex(time.Hour)

	require.Equal(t, monitoring.StatusUp, check.Run(context.Background()).Status)

	monitoring.RecordIndexRefresh(monitoring.ResultSuccess, "", 3, time.Second)
	require.Equal(t, monitoring.StatusUp, check.Run(context.Background()).Status)

	monitoring.RecordIndexRefresh(monitoring.ResultFailure, "permission denied", 0, time.Second)
	result := check.Run(context.Background())
	require.Equal(t, monitoring.StatusDegraded, result.Status)
	require.Contains(t, result.Details, "permission denied")
}

func TestMetricsServerServesEndpoint(t *testing.T) {
	mod := setupModule(t)
	monitoring.RecordTriggerEvent(monitoring.TriggerAccepted)

	srv := mod.MetricsServer("127.0.0.1:0", "/internal/metrics")
	require.Equal(t, "127.0.0.1:0", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `paintstore_trigger_events_total{result="accepted"} 1`)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
