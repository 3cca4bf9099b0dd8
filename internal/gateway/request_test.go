package gateway

import "testing"

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name       string
		pathValue  string
		wantPrefix string
		wantSuffix string
		wantType   IndexType
	}{
		{"logs class", "logs/_search", "logs", "_search", IndexLogs},
		{"metrics class", "metrics/_search", "metrics", "_search", IndexMetrics},
		{"no class", "_search", "", "_search", IndexUndefined},
		{"unknown class", "traces/_search", "traces", "_search", IndexUndefined},
		{"class lookup is case sensitive", "Logs/_search", "Logs", "_search", IndexUndefined},
		{"nested prefix is not a class", "foo/logs/_search", "foo/logs", "_search", IndexUndefined},
		{"ping without class", "_ping", "", "_ping", IndexUndefined},
		{"summarize under logs", "logs/_summarize", "logs", "_summarize", IndexLogs},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prefix, suffix, indexType := SplitPath(tc.pathValue)
			if prefix != tc.wantPrefix || suffix != tc.wantSuffix || indexType != tc.wantType {
				t.Fatalf("SplitPath(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tc.pathValue, prefix, suffix, indexType, tc.wantPrefix, tc.wantSuffix, tc.wantType)
			}
		})
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest("GET", "my-index", "logs/_search", map[string]string{"text": "error"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Method != MethodGet {
		t.Fatalf("method = %q", req.Method)
	}
	if req.IndexName != "my-index" {
		t.Fatalf("index = %q", req.IndexName)
	}
	if req.PathPrefix != "logs" || req.PathSuffix != "_search" || req.IndexType != IndexLogs {
		t.Fatalf("split = (%q, %q, %v)", req.PathPrefix, req.PathSuffix, req.IndexType)
	}
	if req.Params["text"] != "error" {
		t.Fatalf("params = %v", req.Params)
	}
}

func TestParseRequestMissingIndex(t *testing.T) {
	_, err := ParseRequest("GET", "", "logs/_search", nil)
	if err == nil {
		t.Fatal("expected error for missing index")
	}
	if KindOf(err) != KindMissingIndex {
		t.Fatalf("kind = %v, want %v", KindOf(err), KindMissingIndex)
	}
}

func TestParseRequestInvalidMethod(t *testing.T) {
	for _, method := range []string{"", "PATCH", "OPTIONS", "get"} {
		_, err := ParseRequest(method, "my-index", "_search", nil)
		if err == nil {
			t.Fatalf("method %q: expected error", method)
		}
		if KindOf(err) != KindInvalidMethod {
			t.Fatalf("method %q: kind = %v, want %v", method, KindOf(err), KindInvalidMethod)
		}
	}
}

func TestParseRequestEmptyPathAllowedForLifecycle(t *testing.T) {
	req, err := ParseRequest("PUT", "my-index", "", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.PathSuffix != "" || req.IndexType != IndexUndefined {
		t.Fatalf("split = (%q, %v)", req.PathSuffix, req.IndexType)
	}
}
