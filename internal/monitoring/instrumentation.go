package monitoring

import (
	"strings"
	"time"
)

// Push send results other than success carry the delivery error class.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	TriggerAccepted = "accepted"
	TriggerSkipped  = "skipped"
	TriggerInvalid  = "invalid"
)

// RecordPushSend records one push delivery request and how long the delivery
// service took to answer. result is "success" or an error class such as
// "invalid_argument".
func RecordPushSend(result, detail string, duration time.Duration) {
	module := CurrentModule()
	if module == nil {
		return
	}
	label := normalizeLabel(result)
	module.metrics.pushSends.WithLabelValues(label).Inc()
	observeDuration(module.metrics.pushSendLatency, duration)
	module.stats.recordPush(label, detail, duration)
}

// RecordTriggerEvent counts a database trigger event by outcome.
func RecordTriggerEvent(result string) {
	module := CurrentModule()
	if module == nil {
		return
	}
	label := normalizeLabel(result)
	module.metrics.triggerEvents.WithLabelValues(label).Inc()
	module.stats.recordTrigger(label)
}

// ObserveAPILatency captures the HTTP request latency for the supplied route.
func ObserveAPILatency(method, path, status string, duration time.Duration) {
	module := CurrentModule()
	if module == nil {
		return
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = "UNKNOWN"
	}
	path = sanitizePath(path)
	if path == "" {
		path = "unknown"
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = "unknown"
	}
	observeDuration(module.metrics.apiLatency.WithLabelValues(method, path, status), duration)
}

// RecordRecommendation counts a recommendation query.
func RecordRecommendation(endpoint, result string) {
	module := CurrentModule()
	if module == nil {
		return
	}
	ep := normalizeLabel(endpoint)
	label := normalizeLabel(result)
	module.metrics.recommendations.WithLabelValues(ep, label).Inc()
	module.stats.recordRecommendation(ep, label)
}

// RecordIndexRefresh records a recommendation index rebuild. products is the
// size of the resulting index and is ignored on failure.
func RecordIndexRefresh(result, errMsg string, products int, duration time.Duration) {
	module := CurrentModule()
	if module == nil {
		return
	}
	label := normalizeLabel(result)
	module.metrics.indexRefreshes.WithLabelValues(label).Inc()
	observeDuration(module.metrics.indexRefreshDuration, duration)
	if label == ResultSuccess {
		module.metrics.indexProducts.Set(float64(products))
	}
	module.stats.recordRefresh(label, errMsg, products, duration)
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}

func sanitizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	path = strings.Trim(path, "/")
	path = strings.ReplaceAll(path, " ", "_")
	if path == "" {
		return "root"
	}
	return path
}
