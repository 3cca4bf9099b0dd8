package gateway

import "strings"

// Method is an inbound REST method the gateway understands.
type Method string

const (
	MethodGet    Method = "GET"
	MethodHead   Method = "HEAD"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// ParseMethod validates a raw method string. Anything outside the supported
// set, including an empty method, fails with KindInvalidMethod.
func ParseMethod(raw string) (Method, error) {
	switch Method(raw) {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodDelete:
		return Method(raw), nil
	}
	return "", Errf(KindInvalidMethod, "unsupported method %q", raw)
}

// IndexType is the telemetry class of a collection. The backend keeps a
// separate index per class; UNDEFINED means the caller did not name one.
type IndexType int

const (
	IndexUndefined IndexType = iota
	IndexLogs
	IndexMetrics
)

func (t IndexType) String() string {
	switch t {
	case IndexLogs:
		return "logs"
	case IndexMetrics:
		return "metrics"
	}
	return "undefined"
}

// ParsedRequest is the normalized descriptor built once per inbound call.
// It is immutable after construction and owned by the call that built it.
type ParsedRequest struct {
	Method     Method
	RawPath    string
	PathPrefix string
	PathSuffix string
	IndexName  string
	IndexType  IndexType
	Params     map[string]string
}

// SplitPath splits a routed path value at its last slash. The prefix (empty
// when the value has no slash) doubles as the telemetry-class lookup: an exact
// "logs" or "metrics" prefix classifies the collection, anything else is
// UNDEFINED. A value like "logs/_search" therefore yields
// ("logs", "_search", IndexLogs).
func SplitPath(pathValue string) (prefix, suffix string, indexType IndexType) {
	i := strings.LastIndex(pathValue, "/")
	if i < 0 {
		return "", pathValue, IndexUndefined
	}
	prefix = pathValue[:i]
	suffix = pathValue[i+1:]
	switch prefix {
	case "logs":
		indexType = IndexLogs
	case "metrics":
		indexType = IndexMetrics
	default:
		indexType = IndexUndefined
	}
	return prefix, suffix, indexType
}

// ParseRequest builds a ParsedRequest from the routed values of an inbound
// call. The path value may be empty for index-lifecycle calls (PUT, DELETE
// and the bare HEAD probe); every other translation rule requires one and
// fails later in the translator.
func ParseRequest(rawMethod, indexName, pathValue string, params map[string]string) (*ParsedRequest, error) {
	method, err := ParseMethod(rawMethod)
	if err != nil {
		return nil, err
	}
	if indexName == "" {
		return nil, Errf(KindMissingIndex, "index name must be specified")
	}
	if params == nil {
		params = map[string]string{}
	}
	req := &ParsedRequest{
		Method:    method,
		RawPath:   pathValue,
		IndexName: indexName,
		Params:    params,
	}
	if pathValue != "" {
		req.PathPrefix, req.PathSuffix, req.IndexType = SplitPath(pathValue)
	}
	return req, nil
}
