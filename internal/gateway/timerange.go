package gateway

import "time"

// TimeWindow bounds a search query. Both fields are RFC 3339 instants and are
// always non-empty after resolution.
type TimeWindow struct {
	StartTime string
	EndTime   string
}

// ResolveTimeWindow fills in absent or empty start_time/end_time parameters.
// Start defaults to now minus lookback, end defaults to now, both captured at
// resolution time. Only GET-class commands resolve a window.
func ResolveTimeWindow(params map[string]string, now time.Time, lookback time.Duration) TimeWindow {
	w := TimeWindow{
		StartTime: params["start_time"],
		EndTime:   params["end_time"],
	}
	if w.StartTime == "" {
		w.StartTime = now.Add(-lookback).UTC().Format(time.RFC3339Nano)
	}
	if w.EndTime == "" {
		w.EndTime = now.UTC().Format(time.RFC3339Nano)
	}
	return w
}
