package cache

import (
	"net/url"
	"strings"

	"github.com/Sternrassler/market-query-api/pkg/param"
)

// AbsentToken is the key segment for a parameter that was not supplied.
const AbsentToken = "~"

// Key identifies one cached result set.
type Key struct {
	// Dataset is the namespace tag (e.g., "institution-trade")
	Dataset string

	// Values are the filter parameters in their fixed per-dataset order
	Values []param.Value
}

// String generates a deterministic cache key string.
// Format: dataset:v1:v2:...:vN
//
// Example:
//
//	institution-trade:=Acme:~:=2024-01-02:~
func (k Key) String() string {
	parts := make([]string, 0, len(k.Values)+1)
	parts = append(parts, k.Dataset)

	for _, v := range k.Values {
		parts = append(parts, segment(v))
	}

	return strings.Join(parts, ":")
}

// segment renders one value. Escaping removes ":" from supplied values, and
// the "=" prefix keeps them apart from AbsentToken.
func segment(v param.Value) string {
	s, ok := v.Get()
	if !ok {
		return AbsentToken
	}
	return "=" + url.QueryEscape(s)
}
