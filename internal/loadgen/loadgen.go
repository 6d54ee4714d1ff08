// Package loadgen emits the per-table load block of the import script: a
// staging-table load followed by referential pruning and an upsert merge into
// the destination table. The block is idempotent — the staging table is
// created if absent, truncated before each load, and dropped afterwards, and
// the merge overwrites by primary key — so the script can be re-run against
// an unchanged source without changing the final table contents.
//
// Generation is pure string construction; nothing here talks to a database.
package loadgen

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"pgexport/internal/catalog"
)

// Script renders the ordered statement sequence loading one table.
//
// Steps, in emitted order:
//
//  1. Create the staging table with the destination table's structure.
//  2. Truncate it, clearing any residue from an earlier run.
//  3. Bulk-load the row artifact; the header row carries column names and an
//     empty field reads as NULL.
//  4. If the table has a primary key, is not the root entity table, and
//     declares the root-entity foreign-key column: delete staged rows whose
//     non-null foreign-key value matches no primary-key value in the root
//     table, so the merge cannot trip the constraint.
//  5. Merge into the destination: upsert-by-primary-key overwriting every
//     non-key column, or an unconditional insert when the table is key-less
//     (re-running then duplicates rows; accepted for key-less tables).
//  6. Drop the staging table.
func Script(t catalog.Table, csvPath, rootTable, fkColumn string) string {
	staging := ident("staging_" + t.Name)
	target := ident(t.Name)

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (LIKE %s);", staging, target),
		fmt.Sprintf("TRUNCATE %s;", staging),
		fmt.Sprintf("\\copy %s FROM '%s' WITH (FORMAT csv, HEADER true, NULL '');",
			staging, escapePath(csvPath)),
	}

	if len(t.PrimaryKey) > 0 && t.Name != rootTable && t.HasColumn(fkColumn) {
		fk := ident(fkColumn)
		stmts = append(stmts, fmt.Sprintf(
			"DELETE FROM %s\nWHERE %s IS NOT NULL\n  AND %s NOT IN (SELECT %s FROM %s);",
			staging, fk, fk, fk, ident(rootTable)))
	}

	if len(t.PrimaryKey) > 0 {
		stmts = append(stmts, upsert(t, staging, target))
	} else {
		stmts = append(stmts, fmt.Sprintf("INSERT INTO %s\nSELECT * FROM %s;", target, staging))
	}

	stmts = append(stmts, fmt.Sprintf("DROP TABLE %s;", staging))
	return strings.Join(stmts, "\n") + "\n"
}

// upsert renders the merge statement for a keyed table. Every non-key column
// is overwritten with the staged value on conflict; a table whose columns are
// all key columns degrades to DO NOTHING, since an empty SET list is not
// valid SQL.
func upsert(t catalog.Table, staging, target string) string {
	keys := make([]string, len(t.PrimaryKey))
	for i, k := range t.PrimaryKey {
		keys[i] = ident(k)
	}

	set := updateSet(t)
	if len(set) == 0 {
		return fmt.Sprintf(
			"INSERT INTO %s\nSELECT * FROM %s\nON CONFLICT (%s) DO NOTHING;",
			target, staging, strings.Join(keys, ", "))
	}
	return fmt.Sprintf(
		"INSERT INTO %s\nSELECT * FROM %s\nON CONFLICT (%s) DO UPDATE SET\n  %s;",
		target, staging, strings.Join(keys, ", "), strings.Join(set, ",\n  "))
}

// updateSet builds the "col = EXCLUDED.col" assignments for every non-key
// column, in table-declared order.
func updateSet(t catalog.Table) []string {
	keySet := make(map[string]struct{}, len(t.PrimaryKey))
	for _, k := range t.PrimaryKey {
		keySet[k] = struct{}{}
	}

	var set []string
	for _, c := range t.Columns {
		if _, isKey := keySet[c.Name]; isKey {
			continue
		}
		set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", ident(c.Name), ident(c.Name)))
	}
	return set
}

// escapePath doubles single quotes so the artifact path survives the SQL
// string literal in the \copy line.
func escapePath(p string) string {
	return strings.ReplaceAll(p, "'", "''")
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
