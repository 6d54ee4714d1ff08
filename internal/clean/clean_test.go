package clean

import (
	"math"
	"testing"
	"time"
)

/*
Unit tests for the cleaning rules.

We cover:
  - Timestamp: zone-marker and separator acceptance, driver-parsed time.Time
    values, canonical output, idempotence on its own output, and
    null/non-string/garbage narrowing.
  - Integer: exact round-trips, truncation, the signed 64-bit range bound,
    and narrowing for unparseable input.
  - RuleFor dispatch by column name and Plan application over a row.

No third-party dependencies are used.
*/

// TestTimestamp verifies ISO-style parsing and canonical reformatting.
func TestTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "zulu marker", in: "2024-07-27T20:20:00Z", want: "2024-07-27 20:20:00+0000"},
		{name: "colon offset", in: "2024-07-27T20:20:00+02:00", want: "2024-07-27 20:20:00+0200"},
		{name: "space separator", in: "2024-07-27 20:20:00+00:00", want: "2024-07-27 20:20:00+0000"},
		{name: "space and zulu", in: "2024-07-27 20:20:00Z", want: "2024-07-27 20:20:00+0000"},
		{name: "naive", in: "2024-07-27T20:20:00", want: "2024-07-27 20:20:00"},
		{name: "naive with space", in: "2024-07-27 20:20:00", want: "2024-07-27 20:20:00"},
		{name: "date only", in: "2024-07-27", want: "2024-07-27 00:00:00"},
		{name: "fractional seconds", in: "2024-07-27 20:20:00.123456", want: "2024-07-27 20:20:00"},
		{name: "negative offset", in: "2024-07-27T20:20:00-05:00", want: "2024-07-27 20:20:00-0500"},
		{name: "byte slice", in: []byte("2024-07-27T20:20:00Z"), want: "2024-07-27 20:20:00+0000"},

		// The sqlite driver scans values out of timestamp-declared columns as
		// time.Time; those must reformat, not narrow to null.
		{name: "driver time utc", in: time.Date(2024, 7, 27, 20, 20, 0, 0, time.UTC), want: "2024-07-27 20:20:00+0000"},
		{name: "driver time offset", in: time.Date(2024, 7, 27, 20, 20, 0, 0, time.FixedZone("", 2*60*60)), want: "2024-07-27 20:20:00+0200"},

		{name: "null passes through", in: nil, want: nil},
		{name: "garbage", in: "not a timestamp", want: nil},
		{name: "empty string", in: "", want: nil},
		{name: "partial date", in: "2024-07", want: nil},
		{name: "non-string int", in: int64(20240727), want: nil},
		{name: "non-string float", in: 1.5, want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Timestamp(tt.in)
			if got != tt.want {
				t.Fatalf("Timestamp(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

// TestTimestampIdempotent verifies that cleaning an already-canonical string
// yields the same string, for both zoned and naive forms.
func TestTimestampIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"2024-07-27T20:20:00Z",
		"2024-07-27 20:20:00+00:00",
		"2024-07-27T20:20:00-05:00",
		"2024-07-27 20:20:00",
		"2024-07-27",
	}
	for _, in := range inputs {
		once := Timestamp(in)
		s, ok := once.(string)
		if !ok {
			t.Fatalf("Timestamp(%q) = %#v, want a string", in, once)
		}
		twice := Timestamp(s)
		if twice != once {
			t.Fatalf("Timestamp not idempotent: %q -> %q -> %#v", in, s, twice)
		}
	}
}

// TestInteger verifies coercion via float parse and truncation, the 64-bit
// range bound, and narrowing of unparseable input.
func TestInteger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "exact string", in: "42", want: int64(42)},
		{name: "negative string", in: "-7", want: int64(-7)},
		{name: "float string truncates", in: "42.9", want: int64(42)},
		{name: "scientific in range", in: "1e3", want: int64(1000)},
		{name: "int64 passthrough", in: int64(99), want: int64(99)},
		{name: "float truncates", in: 3.7, want: int64(3)},
		{name: "min int64", in: "-9223372036854775808", want: int64(math.MinInt64)},

		{name: "overflow literal", in: "1e400", want: nil},
		{name: "max int64 string rounds out of range", in: "9223372036854775807", want: nil},
		{name: "negative overflow", in: "-1e19", want: nil},
		{name: "garbage", in: "abc", want: nil},
		{name: "empty string", in: "", want: nil},
		{name: "null stays null", in: nil, want: nil},
		{name: "nan float", in: math.NaN(), want: nil},
		{name: "inf float", in: math.Inf(1), want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Integer(tt.in)
			if got != tt.want {
				t.Fatalf("Integer(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

// TestRuleFor verifies the name-pattern dispatch, including the precedence of
// the timestamp suffix over the integer substring match.
func TestRuleFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		col  string
		want string // "timestamp", "integer", or "none"
	}{
		{"last_updated", "timestamp"},
		{"founding_date", "timestamp"},
		{"company_id", "integer"},
		{"shares_outstanding", "integer"},
		{"paid_shares", "integer"},
		{"name", "none"},
		{"revenue", "none"},
		// "id_updated" carries both markers; the timestamp suffix wins.
		{"id_updated", "timestamp"},
	}

	for _, tt := range tests {
		r := RuleFor(tt.col)
		var got string
		switch {
		case r == nil:
			got = "none"
		case r("2024-07-27") == "2024-07-27 00:00:00":
			got = "timestamp"
		case r("42") == int64(42):
			got = "integer"
		default:
			t.Fatalf("RuleFor(%q): unrecognized rule behavior", tt.col)
		}
		if got != tt.want {
			t.Fatalf("RuleFor(%q) = %s, want %s", tt.col, got, tt.want)
		}
	}
}

// TestPlanApply verifies in-place application over a row aligned to the plan.
func TestPlanApply(t *testing.T) {
	t.Parallel()

	cols := []string{"company_id", "name", "list_date"}
	plan := PlanFor(cols)

	row := []any{"12", "Acme Gold", "2024-07-27T00:00:00Z"}
	plan.Apply(row)

	want := []any{int64(12), "Acme Gold", "2024-07-27 00:00:00+0000"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("Apply: column %d = %#v, want %#v", i, row[i], want[i])
		}
	}
}

// BenchmarkPlanApply measures cleaning one row through a compiled plan.
func BenchmarkPlanApply(b *testing.B) {
	plan := PlanFor([]string{"company_id", "name", "shares_outstanding", "last_updated"})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		row := []any{"12", "Acme Gold", "1000000", "2024-07-27 20:20:00Z"}
		plan.Apply(row)
	}
}
