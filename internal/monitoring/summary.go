package monitoring

import (
	"sort"
	"time"
)

// Summary surfaces aggregated monitoring data for operators.
type Summary struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Push            PushSummary       `json:"push"`
	Triggers        TriggerSummary    `json:"triggers"`
	Recommendations []EndpointSummary `json:"recommendations"`
	Index           IndexSummary      `json:"index"`
}

type PushSummary struct {
	Sent                  uint64         `json:"sent"`
	Failed                uint64         `json:"failed"`
	AverageLatencySeconds float64        `json:"average_latency_seconds"`
	LastFailure           *FailureRecord `json:"last_failure,omitempty"`
}

type FailureRecord struct {
	Class    string    `json:"class"`
	Message  string    `json:"message"`
	Occurred time.Time `json:"occurred_at"`
}

type TriggerSummary struct {
	Accepted uint64 `json:"accepted"`
	Skipped  uint64 `json:"skipped"`
	Invalid  uint64 `json:"invalid"`
}

type EndpointSummary struct {
	Endpoint string `json:"endpoint"`
	Success  uint64 `json:"success"`
	Failure  uint64 `json:"failure"`
}

// IndexSummary describes the most recent recommendation index rebuilds.
type IndexSummary struct {
	TotalRuns           uint64        `json:"total_runs"`
	LastStatus          string        `json:"last_status,omitempty"`
	LastRunAt           time.Time     `json:"last_run_at"`
	LastSuccessAt       time.Time     `json:"last_success_at"`
	LastDuration        time.Duration `json:"last_duration"`
	LastError           string        `json:"last_error,omitempty"`
	Products            int           `json:"products"`
	ConsecutiveFailures uint64        `json:"consecutive_failures"`
}

// Snapshot returns the current summary of the process-wide module. An empty
// summary is returned when no module is installed.
func Snapshot() Summary {
	module := CurrentModule()
	if module == nil {
		return Summary{GeneratedAt: time.Now().UTC(), Recommendations: []EndpointSummary{}}
	}
	return module.Summary()
}

// Summary returns the module's aggregated statistics.
func (m *Module) Summary() Summary {
	if m == nil || m.stats == nil {
		return Summary{GeneratedAt: time.Now().UTC(), Recommendations: []EndpointSummary{}}
	}
	summary := m.stats.summary()
	sort.Slice(summary.Recommendations, func(i, j int) bool {
		return summary.Recommendations[i].Endpoint < summary.Recommendations[j].Endpoint
	})
	return summary
}
