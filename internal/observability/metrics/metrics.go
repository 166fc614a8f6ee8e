// Package metrics defines the metric names and tags the server emits.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/target/crewboard/internal/observability/errors"
	"github.com/target/crewboard/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Preference kinds.
const (
	KindTheme    = "theme"
	KindViewMode = "view_mode"
)

// RequestMetric describes one served HTTP request.
type RequestMetric struct {
	Route    string
	Method   string
	Status   int
	Duration time.Duration
}

// EmitRequest emits http.request and http.duration tagged by route and
// status class.
func EmitRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}
	route := in.Route
	if route == "" {
		route = "unmatched"
	}
	tags := map[string]string{
		"route":  route,
		"method": in.Method,
		"status": StatusClass(in.Status),
	}
	sink.Count("http.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("http.duration", in.Duration, CloneTags(tags))
	}
}

// PreferenceMetric describes one attempt to change a stored preference.
type PreferenceMetric struct {
	Kind   string
	Value  string
	Result string
	Err    error
}

// EmitPreferenceChange emits prefs.change. Errors add an error_class tag.
func EmitPreferenceChange(sink statsd.Sink, in PreferenceMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"kind":   in.Kind,
		"result": in.Result,
	}
	if in.Value != "" {
		tags["value"] = in.Value
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	sink.Count("prefs.change", 1, tags)
}

// StatusClass buckets an HTTP status as "2xx", "4xx" and so on.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
