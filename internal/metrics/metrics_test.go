package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.ExpensesRecorded.WithLabelValues("equal").Inc()
	m.ExpensesRecorded.WithLabelValues("equal").Inc()
	m.TransfersRecorded.WithLabelValues("settlement").Inc()
	m.SplitsRejected.Inc()

	if got := testutil.ToFloat64(m.ExpensesRecorded.WithLabelValues("equal")); got != 2 {
		t.Errorf("expenses_recorded_total{equal} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SplitsRejected); got != 1 {
		t.Errorf("splits_rejected_total = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"ledger_expenses_recorded_total",
		"ledger_transfers_recorded_total",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewIsIndependent(t *testing.T) {
	// Two instances must not collide on registration.
	a, b := New(), New()
	a.SplitsRejected.Inc()
	if got := testutil.ToFloat64(b.SplitsRejected); got != 0 {
		t.Errorf("second instance saw %v rejections, want 0", got)
	}
}
