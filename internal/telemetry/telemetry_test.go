package telemetry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"agentdesk/internal/config"
)

func TestInit_InactiveIsNoop(t *testing.T) {
	p, err := Init(config.TelemetryConfig{Enabled: false, Exporter: config.ExporterStdout}, "v0.0.1")
	require.NoError(t, err)
	require.NotNil(t, p.Tracer)
	require.NotNil(t, p.Meter)

	_, span := p.Tracer.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInit_StdoutWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otel", "telemetry.jsonl")
	p, err := Init(config.TelemetryConfig{
		Enabled:     true,
		Exporter:    config.ExporterStdout,
		File:        path,
		ServiceName: "agentdesk-test",
	}, "v0.0.1")
	require.NoError(t, err)

	ctx := context.Background()
	_, span := p.Tracer.Tracer("test").Start(ctx, "agent.execute")
	span.SetAttributes(RequestAttributes("/api/agent/execute", "req-1", "CalculatorSkill")...)
	span.End()

	counter, err := p.Meter.Meter("test").Int64Counter(MetricRequests)
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, p.Shutdown(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "agent.execute")
	assert.Contains(t, string(data), "agentdesk-test")
	assert.Contains(t, string(data), MetricRequests)
}

func TestInit_Errors(t *testing.T) {
	_, err := Init(config.TelemetryConfig{Enabled: true, Exporter: "jaeger"}, "v0")
	assert.ErrorContains(t, err, "unknown telemetry exporter")

	_, err = Init(config.TelemetryConfig{Enabled: true, Exporter: config.ExporterStdout}, "v0")
	assert.ErrorContains(t, err, "file is required")
}

func TestRequestAttributes(t *testing.T) {
	scoped := RequestAttributes("/api/agent/execute", "req-9", "WeatherSkill")
	assertAttributes(t, scoped, map[string]any{
		AttrEndpoint:  "/api/agent/execute",
		AttrRequestID: "req-9",
		AttrSkillName: "WeatherSkill",
		AttrScoped:    true,
	})

	unscoped := RequestAttributes("/api/agent/skills", "", "")
	assertAttributes(t, unscoped, map[string]any{
		AttrEndpoint: "/api/agent/skills",
		AttrScoped:   false,
	})
}

func TestOutcomeAttributes(t *testing.T) {
	assertAttributes(t, OutcomeAttributes("/x", nil), map[string]any{AttrEndpoint: "/x", AttrOutcome: "ok"})
	assertAttributes(t, OutcomeAttributes("/x", errors.New("boom")), map[string]any{AttrEndpoint: "/x", AttrOutcome: "error"})
}

func assertAttributes(t *testing.T, attrs []attribute.KeyValue, expected map[string]any) {
	t.Helper()
	require.Len(t, attrs, len(expected))
	for _, kv := range attrs {
		want, ok := expected[string(kv.Key)]
		require.True(t, ok, "unexpected attribute %s", kv.Key)
		assert.Equal(t, want, kv.Value.AsInterface(), "attribute %s", kv.Key)
	}
}
