package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/charlesng35/paintstore/internal/monitoring"
)

// RecommendationIndex evaluates scheduled index rebuilds. A rebuild that has
// never run is reported up (indexes load on demand), a failing one degrades
// readiness, and a last success older than maxAge degrades it as well. A zero
// maxAge disables the staleness check.
func RecommendationIndex(maxAge time.Duration) monitoring.Check {
	return monitoring.NewCheck("recommendation_index", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		index := monitoring.Snapshot().Index

		switch {
		case index.TotalRuns == 0:
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "no rebuild yet", Duration: time.Since(start)}
		case index.ConsecutiveFailures > 0:
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  fmt.Sprintf("%d consecutive failures: %s", index.ConsecutiveFailures, index.LastError),
				Duration: time.Since(start),
			}
		case maxAge > 0 && time.Since(index.LastSuccessAt) > maxAge:
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  "stale index built at " + index.LastSuccessAt.UTC().Format(time.RFC3339),
				Duration: time.Since(start),
			}
		}

		return monitoring.ProbeResult{
			Status:   monitoring.StatusUp,
			Details:  fmt.Sprintf("%d products", index.Products),
			Duration: time.Since(start),
		}
	})
}
