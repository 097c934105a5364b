package cache

import (
	"encoding/json"
	"time"
)

// Entry is a cached, fully materialized result set.
type Entry struct {
	// Data is the JSON-encoded record slice
	Data json.RawMessage `json:"data"`

	// Count is the number of records in Data
	Count int `json:"count"`

	// CachedAt is when the result was computed
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the entry stops being served
	Expires time.Time `json:"expires"`
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return e.ExpiredAt(time.Now())
}

// ExpiredAt reports whether the entry is expired at now.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return !now.Before(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	return e.TTLAt(time.Now())
}

// TTLAt returns the time until expiration measured from now.
func (e *Entry) TTLAt(now time.Time) time.Duration {
	ttl := e.Expires.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
