// Package pgddl renders the PostgreSQL side of the migration: per-table
// CREATE TABLE statements, the foreign-key constraint statements, and the
// aggregate schema script. Everything here is pure string construction over
// already-validated catalog descriptors; no I/O and no failure paths.
package pgddl

import "strings"

// MapType maps a SQLite declared type token onto a PostgreSQL column type.
// Matching is case-insensitive on the trimmed token. solePK selects the
// auto-incrementing form for an integer column that is the table's only
// primary-key column.
//
//	INTEGER              -> BIGSERIAL (sole PK) / BIGINT
//	REAL/FLOAT/DOUBLE    -> DOUBLE PRECISION
//	DATETIME/TIMESTAMP   -> TIMESTAMP WITH TIME ZONE
//	"" (untyped)         -> TEXT
//	anything else        -> TEXT
func MapType(declared string, solePK bool) string {
	switch strings.ToUpper(strings.TrimSpace(declared)) {
	case "INTEGER", "INT", "BIGINT":
		if solePK {
			return "BIGSERIAL"
		}
		return "BIGINT"
	case "REAL", "FLOAT", "DOUBLE", "DOUBLE PRECISION":
		return "DOUBLE PRECISION"
	case "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		return "TIMESTAMP WITH TIME ZONE"
	default:
		return "TEXT"
	}
}
