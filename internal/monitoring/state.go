package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

type statStore struct {
	pushSuccess     atomic.Uint64
	pushFailure     atomic.Uint64
	pushTotalNanos  atomic.Uint64
	pushLastFailure atomic.Value // *FailureRecord

	triggerAccepted atomic.Uint64
	triggerSkipped  atomic.Uint64
	triggerInvalid  atomic.Uint64

	recommendations sync.Map // endpoint -> *endpointStats

	refreshMu sync.Mutex
	refresh   IndexSummary
}

type endpointStats struct {
	success atomic.Uint64
	failure atomic.Uint64
}

func newStatStore() *statStore {
	store := &statStore{}
	store.pushLastFailure.Store((*FailureRecord)(nil))
	return store
}

func (s *statStore) recordPush(result, detail string, duration time.Duration) {
	if duration > 0 {
		s.pushTotalNanos.Add(uint64(duration))
	}
	if result == ResultSuccess {
		s.pushSuccess.Add(1)
		return
	}
	s.pushFailure.Add(1)
	s.pushLastFailure.Store(&FailureRecord{
		Class:    result,
		Message:  detail,
		Occurred: time.Now().UTC(),
	})
}

func (s *statStore) recordTrigger(result string) {
	switch result {
	case TriggerAccepted:
		s.triggerAccepted.Add(1)
	case TriggerSkipped:
		s.triggerSkipped.Add(1)
	default:
		s.triggerInvalid.Add(1)
	}
}

func (s *statStore) recordRecommendation(endpoint, result string) {
	value, _ := s.recommendations.LoadOrStore(endpoint, &endpointStats{})
	stats := value.(*endpointStats)
	if result == ResultSuccess {
		stats.success.Add(1)
		return
	}
	stats.failure.Add(1)
}

func (s *statStore) recordRefresh(result, errMsg string, products int, duration time.Duration) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	now := time.Now().UTC()
	s.refresh.TotalRuns++
	s.refresh.LastStatus = result
	s.refresh.LastRunAt = now
	s.refresh.LastDuration = duration
	if result == ResultSuccess {
		s.refresh.LastSuccessAt = now
		s.refresh.LastError = ""
		s.refresh.Products = products
		s.refresh.ConsecutiveFailures = 0
		return
	}
	s.refresh.LastError = errMsg
	s.refresh.ConsecutiveFailures++
}

func (s *statStore) summary() Summary {
	lastFailure, _ := s.pushLastFailure.Load().(*FailureRecord)
	success := s.pushSuccess.Load()
	failure := s.pushFailure.Load()

	var avg float64
	if total := success + failure; total > 0 {
		avg = float64(s.pushTotalNanos.Load()) / float64(total) / float64(time.Second)
	}

	endpoints := []EndpointSummary{}
	s.recommendations.Range(func(key, value any) bool {
		stats := value.(*endpointStats)
		endpoints = append(endpoints, EndpointSummary{
			Endpoint: key.(string),
			Success:  stats.success.Load(),
			Failure:  stats.failure.Load(),
		})
		return true
	})

	s.refreshMu.Lock()
	refresh := s.refresh
	s.refreshMu.Unlock()

	return Summary{
		GeneratedAt: time.Now().UTC(),
		Push: PushSummary{
			Sent:                  success,
			Failed:                failure,
			AverageLatencySeconds: avg,
			LastFailure:           lastFailure,
		},
		Triggers: TriggerSummary{
			Accepted: s.triggerAccepted.Load(),
			Skipped:  s.triggerSkipped.Load(),
			Invalid:  s.triggerInvalid.Load(),
		},
		Recommendations: endpoints,
		Index:           refresh,
	}
}
