// Package param models optional request parameters where "not supplied" is a
// distinct state from "supplied as the empty string".
package param

import "net/url"

// Value is an optional string parameter. The zero value is absent.
type Value struct {
	s  string
	ok bool
}

// Absent returns a Value that was not supplied.
func Absent() Value {
	return Value{}
}

// Of returns a supplied Value, including the empty string.
func Of(s string) Value {
	return Value{s: s, ok: true}
}

// Lookup reads name from query parameters. When a parameter is repeated the
// last occurrence wins.
func Lookup(q url.Values, name string) Value {
	vs, ok := q[name]
	if !ok || len(vs) == 0 {
		return Absent()
	}
	return Of(vs[len(vs)-1])
}

// Get returns the value and whether it was supplied.
func (v Value) Get() (string, bool) {
	return v.s, v.ok
}

// IsAbsent reports whether the parameter was not supplied.
func (v Value) IsAbsent() bool {
	return !v.ok
}

// Filled returns the value only when it was supplied and is non-empty.
// Filters treat an empty parameter the same as an absent one.
func (v Value) Filled() (string, bool) {
	if !v.ok || v.s == "" {
		return "", false
	}
	return v.s, true
}

// String renders the value for logs.
func (v Value) String() string {
	if !v.ok {
		return "<absent>"
	}
	return v.s
}
