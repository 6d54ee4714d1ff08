// Package clean holds the column-level cleaning rules applied during export.
//
// Rule selection is driven by column name, not declared type: the source
// schema encodes its conventions in names ("*_updated"/"*_date" columns carry
// timestamps, "*id*"/"*shares*" columns carry integers). Rather than
// re-matching names per cell, a Plan is compiled once per table and then
// applied to every row.
//
// Rules are pure and total: a value that cannot be cleaned narrows to nil
// (SQL NULL) and never produces an error. A nil input always stays nil.
package clean

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Rule transforms one raw source value into its cleaned form. A nil result
// means NULL in the exported artifact.
type Rule func(v any) any

// Plan holds the per-column rules for one table, aligned to the table's
// column order. A nil entry means the column passes through unchanged.
type Plan []Rule

// PlanFor compiles the rule plan for an ordered column-name list.
func PlanFor(columns []string) Plan {
	p := make(Plan, len(columns))
	for i, name := range columns {
		p[i] = RuleFor(name)
	}
	return p
}

// RuleFor selects the rule for a single column name. Timestamp suffixes win
// over the integer substring match, mirroring the dispatch order the dataset
// was built around.
func RuleFor(name string) Rule {
	switch {
	case strings.HasSuffix(name, "_updated") || strings.HasSuffix(name, "_date"):
		return Timestamp
	case strings.Contains(name, "shares") || strings.Contains(name, "id"):
		return Integer
	default:
		return nil
	}
}

// Apply runs the plan over one row in place. len(row) must equal len(p).
func (p Plan) Apply(row []any) {
	for i, r := range p {
		if r != nil {
			row[i] = r(row[i])
		}
	}
}

// timestamp layouts tried in order after normalization. Zoned layouts come
// first so re-cleaning canonical output keeps its offset.
var zonedLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-0700",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Timestamp normalizes an ISO-style timestamp into the canonical
// "2006-01-02 15:04:05-0700" form (offset omitted when a string input
// carried none). Accepted inputs may use a trailing "Z" zone marker or a
// space in place of the "T" separator. The driver hands back time.Time for
// values it already parsed out of timestamp-declared columns; those are
// reformatted directly. Anything unparseable, and any other non-string,
// becomes nil; nil stays nil. The function is idempotent on its own output.
func Timestamp(v any) any {
	var s string
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return x.Format("2006-01-02 15:04:05-0700")
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return nil
	}

	n := s
	if strings.HasSuffix(n, "Z") {
		n = strings.TrimSuffix(n, "Z") + "+00:00"
	}
	n = strings.ReplaceAll(n, " ", "T")

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, n); err == nil {
			return t.Format("2006-01-02 15:04:05-0700")
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, n); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return nil
}

// Integer coerces a value to int64 via a floating-point parse with integer
// truncation. Values outside the signed 64-bit range, parse failures, and
// unsupported types all narrow to nil; nil stays nil.
func Integer(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return truncate(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil
		}
		return truncate(f)
	case []byte:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return nil
		}
		return truncate(f)
	default:
		return nil
	}
}

// truncate drops the fractional part and rejects magnitudes that do not fit
// in int64. The upper bound is exactly 2^63; float64 cannot represent
// 2^63 - 1, so >= is the correct comparison.
func truncate(f float64) any {
	lim := math.Ldexp(1, 63)
	if math.IsNaN(f) || f >= lim || f < -lim {
		return nil
	}
	return int64(f)
}
