package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"orderboard/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewBoardMetrics(reg)

	m.Transition("placed", "in_separation", "ok")
	m.Transition("placed", "in_separation", "ok")
	m.Reload("error")
	m.Print("production_ticket", "ok")
	m.Buckets(map[string]int{"placed": 3})

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `orderboard_board_transitions_total{from="placed",result="ok",to="in_separation"} 2`)
	assert.Contains(t, body, `orderboard_board_reloads_total{result="error"} 1`)
	assert.Contains(t, body, `orderboard_printer_jobs_total{kind="production_ticket",result="ok"} 1`)
	assert.Contains(t, body, `orderboard_board_orders{status="placed"} 3`)
}

func TestBoardMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.BoardMetrics

	assert.NotPanics(t, func() {
		m.Transition("placed", "finalized", "rejected")
		m.Reload("ok")
		m.RealtimeEvent("update", "applied")
		m.Print("receipt", "ok")
		m.Buckets(map[string]int{"placed": 1})
		m.HTTPRequest("board", "200", 3)
	})
}
