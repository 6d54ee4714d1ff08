package pgddl

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"pgexport/internal/catalog"
	"pgexport/internal/config"
)

// BuildCreateTableSQL renders the destination definition for one table.
//
// Rules:
//
//   - Each column is rendered as:
//
//     <name> <type> [NOT NULL] [DEFAULT <literal>]
//
//     NOT NULL is emitted only for non-primary-key columns declared NOT NULL;
//     primary-key membership already implies it. DEFAULT carries the source
//     literal verbatim and is likewise suppressed on key columns.
//
//   - A non-empty primary key becomes a named composite constraint listing
//     the key columns in table-declared order.
//
//   - A key-less table simply ends its column list with no trailing separator.
func BuildCreateTableSQL(t catalog.Table) string {
	lines := make([]string, 0, len(t.Columns)+1)
	solePK := len(t.PrimaryKey) == 1

	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(ident(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c.DeclaredType, solePK && c.PrimaryKey))

		if c.NotNull && !c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		if c.Default != nil && !c.PrimaryKey {
			// Default literal is emitted as raw SQL, as declared upstream.
			sb.WriteString(" DEFAULT ")
			sb.WriteString(*c.Default)
		}
		lines = append(lines, sb.String())
	}

	if len(t.PrimaryKey) > 0 {
		keys := make([]string, len(t.PrimaryKey))
		for i, k := range t.PrimaryKey {
			keys[i] = ident(k)
		}
		lines = append(lines, fmt.Sprintf(
			"CONSTRAINT %s PRIMARY KEY (%s)",
			ident(t.Name+"_pkey"),
			strings.Join(keys, ", "),
		))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n    %s\n);",
		ident(t.Name),
		strings.Join(lines, ",\n    "),
	)
}

// BuildForeignKeySQL renders one ALTER TABLE constraint statement. The
// constraint is named after the referencing column ("fk_<column>").
func BuildForeignKeySQL(fk config.ForeignKey) string {
	return fmt.Sprintf(
		"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s;",
		ident(fk.Table),
		ident("fk_"+fk.Column),
		ident(fk.Column),
		ident(fk.RefTable),
		ident(fk.RefColumn),
		fk.OnDelete,
	)
}

// BuildSchemaScript assembles the aggregate schema artifact: a generation
// timestamp comment, every table definition in the given (root-first) order,
// then the configured foreign-key statements. The statements are emitted
// unconditionally, whether or not the named tables exist in the source.
func BuildSchemaScript(tables []catalog.Table, fks []config.ForeignKey, generatedAt time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- PostgreSQL Schema Generated on %s\n\n",
		generatedAt.Format("2006-01-02 15:04:05"))

	stmts := make([]string, len(tables))
	for i, t := range tables {
		stmts[i] = BuildCreateTableSQL(t)
	}
	sb.WriteString(strings.Join(stmts, "\n\n"))

	sb.WriteString("\n\n-- Foreign Key Constraints\n")
	for _, fk := range fks {
		sb.WriteString(BuildForeignKeySQL(fk))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ident quotes a single identifier for Postgres.
func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
