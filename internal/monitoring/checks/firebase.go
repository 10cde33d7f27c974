package checks

import (
	"context"
	"errors"
	"time"

	"github.com/charlesng35/paintstore/internal/monitoring"
)

// Firebase reports the Admin SDK handle as up once ready returns nil.
func Firebase(ready func() error) monitoring.Check {
	return monitoring.NewCheck("firebase", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if ready == nil {
			return monitoring.ResultFromError("firebase", errors.New("firebase handle not configured"), time.Since(start))
		}
		return monitoring.ResultFromError("firebase", ready(), time.Since(start))
	})
}
