package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveGuardDecision("absent")
	m.ObserveLogin("ok")
	m.ObserveHeartbeat(nil)
	m.ObserveTermination(errors.New("boom"))
	m.ObserveSelfHeal()
	m.ObserveAssetCleanup(nil)
}

func TestCountersIncrement(t *testing.T) {
	m := New()
	m.ObserveGuardDecision("invalid")
	m.ObserveGuardDecision("invalid")
	m.ObserveSelfHeal()
	m.ObserveHeartbeat(errors.New("store down"))

	if got := testutil.ToFloat64(m.GuardDecisions.WithLabelValues("invalid")); got != 2 {
		t.Fatalf("invalid decisions want 2 got %v", got)
	}
	if got := testutil.ToFloat64(m.ConstructionHealed); got != 1 {
		t.Fatalf("self heal want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.Heartbeats.WithLabelValues("error")); got != 1 {
		t.Fatalf("heartbeat errors want 1 got %v", got)
	}

	count, err := testutil.GatherAndCount(m.Gatherer(), "folio_session_guard_decisions_total", "folio_construction_self_heal_total")
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("gathered series want 2 got %d", count)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveLogin("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "folio_admin_login_attempts_total") {
		t.Fatalf("metrics output missing login counter")
	}
}
