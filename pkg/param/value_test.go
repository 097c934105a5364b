package param

import (
	"net/url"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantValue string
		wantOK    bool
	}{
		{
			name:   "missing parameter",
			query:  url.Values{},
			wantOK: false,
		},
		{
			name:      "empty parameter",
			query:     url.Values{"sector": []string{""}},
			wantValue: "",
			wantOK:    true,
		},
		{
			name:      "single value",
			query:     url.Values{"sector": []string{"Energy"}},
			wantValue: "Energy",
			wantOK:    true,
		},
		{
			name:      "repeated parameter keeps last",
			query:     url.Values{"sector": []string{"Energy", "Banking"}},
			wantValue: "Banking",
			wantOK:    true,
		},
		{
			name:   "present key without values",
			query:  url.Values{"sector": nil},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.query, "sector").Get()
			if ok != tt.wantOK {
				t.Fatalf("Lookup() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.wantValue {
				t.Errorf("Lookup() = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

func TestValue_Filled(t *testing.T) {
	if _, ok := Absent().Filled(); ok {
		t.Error("absent value should not be filled")
	}
	if _, ok := Of("").Filled(); ok {
		t.Error("empty value should not be filled")
	}
	if s, ok := Of("x").Filled(); !ok || s != "x" {
		t.Errorf("Filled() = %q, %v; want %q, true", s, ok, "x")
	}
}

func TestValue_ZeroIsAbsent(t *testing.T) {
	var v Value
	if !v.IsAbsent() {
		t.Error("zero Value should be absent")
	}
	if Of("").IsAbsent() {
		t.Error("empty string should be present")
	}
	if v.String() != "<absent>" {
		t.Errorf("String() = %q", v.String())
	}
}
