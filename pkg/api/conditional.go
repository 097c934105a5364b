package api

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// entityTag returns a strong ETag for body.
func entityTag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}

// notModified reports whether an If-None-Match header value matches etag.
// Weak comparison is used, as for GET.
func notModified(header, etag string) bool {
	if header == "" {
		return false
	}
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}

// cacheControl tells clients how long the snapshot stays valid.
func cacheControl(expires, now time.Time) string {
	remaining := expires.Sub(now).Seconds()
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("private, max-age=%d", int(math.Floor(remaining)))
}
