package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestExporterRecordsAndServes(t *testing.T) {
	registry := prometheus.NewRegistry()
	e := NewExporter(Config{Registry: registry})

	e.ObserveTurn("answer", "professor_matching", 120*time.Millisecond)
	e.ObserveGatewayCall("intent_analysis", "ok", 80*time.Millisecond)
	e.ObserveGatewayCall("match_reason", "timeout", 8*time.Second)

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	require.Contains(t, body, `scimatch_dialog_turns_total{flow_step="answer",message_type="professor_matching"} 1`)
	require.Contains(t, body, `scimatch_gateway_calls_total{kind="intent_analysis",status="ok"} 1`)
	require.Contains(t, body, `scimatch_gateway_calls_total{kind="match_reason",status="timeout"} 1`)
	require.True(t, strings.Contains(body, "scimatch_dialog_turn_latency_seconds_bucket"))
}
