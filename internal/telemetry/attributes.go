package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for agentdesk spans and metrics.
const (
	AttrEndpoint   = "agentdesk.agent.endpoint"
	AttrRequestID  = "agentdesk.request.id"
	AttrSkillName  = "agentdesk.skill.name"
	AttrScoped     = "agentdesk.request.scoped"
	AttrHTTPStatus = "http.response.status_code"
	AttrTraceSteps = "agentdesk.trace.steps"
	AttrOutcome    = "agentdesk.outcome" // "ok", "error"
)

// Instrument names.
const (
	MetricRequests = "agentdesk.agent.requests"
	MetricFailures = "agentdesk.agent.failures"
	MetricDuration = "agentdesk.agent.duration_ms"
)

// RequestAttributes returns attributes for an outbound agent call.
func RequestAttributes(endpoint, requestID, skill string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrEndpoint, endpoint),
		attribute.Bool(AttrScoped, skill != ""),
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	if skill != "" {
		attrs = append(attrs, attribute.String(AttrSkillName, skill))
	}
	return attrs
}

// OutcomeAttributes returns the low-cardinality attributes used on metrics.
func OutcomeAttributes(endpoint string, err error) []attribute.KeyValue {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	return []attribute.KeyValue{
		attribute.String(AttrEndpoint, endpoint),
		attribute.String(AttrOutcome, outcome),
	}
}
