package gateway

import (
	"strings"
	"time"
)

// DefaultSearchWindow is the lookback applied to searches that carry no
// explicit start_time.
const DefaultSearchWindow = 30 * 24 * time.Hour

// OutboundCommand is the fully resolved backend call. It is only ever
// constructed whole; a translation that cannot complete returns an error and
// no command.
type OutboundCommand struct {
	URL    string
	Method Method
}

// Translator rewrites a ParsedRequest into the command grammar of the backend
// telemetry store. It is pure apart from the captured current time used for
// default search windows.
type Translator struct {
	// Endpoint is the backend base URL without a trailing slash.
	Endpoint string
	// SearchWindow is the default search lookback. Zero means
	// DefaultSearchWindow.
	SearchWindow time.Duration
	// Now is the clock used for window defaults. Nil means time.Now.
	Now func() time.Time
}

func (t Translator) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t Translator) window() time.Duration {
	if t.SearchWindow > 0 {
		return t.SearchWindow
	}
	return DefaultSearchWindow
}

// Translate builds the outbound command for req, or fails with a classified
// error before any network access happens.
func (t Translator) Translate(req *ParsedRequest) (OutboundCommand, error) {
	switch req.Method {
	case MethodGet:
		return t.translateRead(req, MethodGet)
	case MethodHead:
		// HEAD probes the resource the caller names: with a path value it
		// follows the GET rules, without one the index-lifecycle rule.
		if req.RawPath == "" {
			return OutboundCommand{URL: t.lifecycleURL(req), Method: MethodHead}, nil
		}
		return t.translateRead(req, MethodHead)
	case MethodPost:
		return t.translateAppend(req)
	case MethodPut, MethodDelete:
		return OutboundCommand{URL: t.lifecycleURL(req), Method: req.Method}, nil
	}
	return OutboundCommand{}, Errf(KindInvalidMethod, "unsupported method %q", req.Method)
}

// lifecycleURL is the index create/drop grammar shared by PUT and DELETE.
func (t Translator) lifecycleURL(req *ParsedRequest) string {
	return t.Endpoint + "/:" + req.IndexName
}

func (t Translator) translateRead(req *ParsedRequest, method Method) (OutboundCommand, error) {
	suffix := req.PathSuffix
	switch {
	case strings.HasSuffix(suffix, "_ping"):
		return OutboundCommand{URL: t.Endpoint + "/ping", Method: method}, nil

	case strings.HasSuffix(suffix, "_search"):
		w := ResolveTimeWindow(req.Params, t.now(), t.window())
		switch req.IndexType {
		case IndexLogs:
			return OutboundCommand{
				URL: t.Endpoint + "/" + req.IndexName + "/search_logs?" + EncodeQuery([]Pair{
					{"text", req.Params["text"]},
					{"start_time", w.StartTime},
					{"end_time", w.EndTime},
				}),
				Method: method,
			}, nil
		case IndexMetrics:
			return OutboundCommand{
				URL: t.Endpoint + "/" + req.IndexName + "/search_metrics?" + EncodeQuery([]Pair{
					{"name", req.Params["name"]},
					{"value", req.Params["value"]},
					{"start_time", w.StartTime},
					{"end_time", w.EndTime},
				}),
				Method: method,
			}, nil
		}
		return OutboundCommand{}, Errf(KindUnsupportedIndexType,
			"search is not defined for index type %s", req.IndexType)

	case strings.HasSuffix(suffix, "_summarize"):
		if req.IndexType != IndexLogs {
			return OutboundCommand{}, Errf(KindUnsupportedIndexType,
				"summarize is not defined for index type %s", req.IndexType)
		}
		w := ResolveTimeWindow(req.Params, t.now(), t.window())
		return OutboundCommand{
			URL: t.Endpoint + "/" + req.IndexName + "/summarize?" + EncodeQuery([]Pair{
				{"text", req.Params["text"]},
				{"start_time", w.StartTime},
				{"end_time", w.EndTime},
			}),
			Method: method,
		}, nil
	}
	return OutboundCommand{}, Errf(KindInvalidRequestPath,
		"no backend command for path %q", req.RawPath)
}

func (t Translator) translateAppend(req *ParsedRequest) (OutboundCommand, error) {
	switch req.IndexType {
	case IndexLogs:
		return OutboundCommand{URL: t.Endpoint + "/" + req.IndexName + "/append_log", Method: MethodPost}, nil
	case IndexMetrics:
		return OutboundCommand{URL: t.Endpoint + "/" + req.IndexName + "/append_metric", Method: MethodPost}, nil
	}
	return OutboundCommand{}, Errf(KindUnsupportedIndexType,
		"append is not defined for index type %s", req.IndexType)
}
