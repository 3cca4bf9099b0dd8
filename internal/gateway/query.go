package gateway

import (
	"net/url"
	"strings"
)

// Pair is one query-string key/value.
type Pair struct {
	Key   string
	Value string
}

// EncodeQuery form-encodes ordered pairs into "k1=v1&k2=v2&...". Key order is
// preserved exactly as supplied; values are UTF-8 form-encoded (space becomes
// '+', reserved characters are percent-escaped). Keys with empty values are
// still emitted so every command kind carries a fixed set of parameters.
func EncodeQuery(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
