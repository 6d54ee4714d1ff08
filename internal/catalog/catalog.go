// Package catalog reads table and column metadata from the source SQLite
// database using database/sql. Enumeration order is the source-native
// sqlite_master order with a single adjustment: the root entity table, if
// present, is moved to the front so foreign-key targets are always defined
// and loaded before their dependents.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Pure-Go SQLite driver; no cgo required.
	_ "modernc.org/sqlite"
)

// Column describes one source column as reported by PRAGMA table_info.
type Column struct {
	// Name is the column name as declared in the source.
	Name string

	// DeclaredType is the raw declared type token, possibly empty; SQLite
	// permits untyped columns.
	DeclaredType string

	// NotNull reports a NOT NULL declaration on the column.
	NotNull bool

	// Default is the declared default literal, nil when absent. The literal
	// is carried verbatim; no re-quoting or validation happens here.
	Default *string

	// PrimaryKey reports membership in the table's primary key.
	PrimaryKey bool
}

// Table is the immutable descriptor a single table's artifacts are generated
// from. It is constructed once from catalog metadata and never mutated.
type Table struct {
	// Name is the table name.
	Name string

	// Columns is the ordered column list, in declared order.
	Columns []Column

	// PrimaryKey lists the primary-key column names in declared order.
	// Empty for key-less tables.
	PrimaryKey []string
}

// HasColumn reports whether the table declares a column with the given name.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ColumnNames returns the ordered column names.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Open opens the SQLite database at path and verifies the connection with a
// short ping. It returns the handle plus a close function the caller must run
// when the whole export is finished; the connection is scoped to the run.
func Open(ctx context.Context, path string) (*sql.DB, func(), error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, fmt.Errorf("catalog: database path must not be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("catalog: ping %s: %w", path, err)
	}

	closeFn := func() { db.Close() }
	return db, closeFn, nil
}

// Tables lists user table names in sqlite_master order, excluding SQLite's
// internal bookkeeping tables (sqlite_sequence and friends).
func Tables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("catalog: scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list tables: %w", err)
	}
	return names, nil
}

// Columns reads the ordered column descriptors for one table. The read is
// atomic per table: either the full list is returned or an error.
func Columns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	// PRAGMA arguments cannot be bound; quote the identifier instead.
	q := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("catalog: table_info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("catalog: scan table_info %s: %w", table, err)
		}
		col := Column{
			Name:         name,
			DeclaredType: typ,
			NotNull:      notNull != 0,
			PrimaryKey:   pk != 0,
		}
		if dflt.Valid {
			v := dflt.String
			col.Default = &v
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: table_info %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("catalog: table %s has no columns", table)
	}
	return cols, nil
}

// Read enumerates the catalog and returns a fully-populated descriptor per
// table, root entity first.
func Read(ctx context.Context, db *sql.DB, rootTable string) ([]Table, error) {
	names, err := Tables(ctx, db)
	if err != nil {
		return nil, err
	}
	names = RootFirst(names, rootTable)

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		cols, err := Columns(ctx, db, name)
		if err != nil {
			return nil, err
		}
		t := Table{Name: name, Columns: cols}
		for _, c := range cols {
			if c.PrimaryKey {
				t.PrimaryKey = append(t.PrimaryKey, c.Name)
			}
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// RootFirst moves root to position 0 if present; all other names keep their
// relative order. The input slice is not modified.
func RootFirst(names []string, root string) []string {
	out := make([]string, 0, len(names))
	found := false
	for _, n := range names {
		if n == root && !found {
			found = true
			continue
		}
		out = append(out, n)
	}
	if !found {
		return out
	}
	return append([]string{root}, out...)
}

// quoteIdent double-quotes a SQLite identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
