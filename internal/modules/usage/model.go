package usage

import "time"

// Outcome values recorded for each completion call.
const (
	OutcomeOK            = "ok"
	OutcomeUpstreamError = "upstream_error"
	OutcomeParseError    = "parse_error"
)

// Record describes one completion call. Prompts and model output are never stored.
type Record struct {
	Endpoint string
	Provider string
	Model    string
	Latency  time.Duration
	Outcome  string
}

// EndpointStats aggregates records for one endpoint.
type EndpointStats struct {
	Endpoint     string
	Calls        int64
	Failures     int64
	AvgLatencyMS float64
}
