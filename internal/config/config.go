// Package config defines the configuration model for the export run. It is
// intentionally small, explicit, and dependency-free so that every component
// can be constructed in tests without touching the filesystem or relying on
// process-global state.
//
// Design goals:
//
//  1. Fixed defaults: the tool ships with compile-time defaults matching the
//     dataset it was built for; there are no flags or environment variables.
//  2. Injectability: paths, the root table, the foreign-key topology, and the
//     clock are all plain fields, so unit tests can swap them freely.
//  3. Minimalism: no third-party config libraries.
package config

import "time"

// ForeignKey describes one ALTER TABLE ... ADD CONSTRAINT statement emitted
// into the schema artifact. The set of foreign keys is configuration, not
// something inferred from the source database: the statements are emitted
// whether or not the named tables exist in the source.
type ForeignKey struct {
	// Table is the dependent table receiving the constraint.
	Table string

	// Column is the referencing column on the dependent table.
	Column string

	// RefTable and RefColumn identify the referenced primary key.
	RefTable  string
	RefColumn string

	// OnDelete is the referential action, e.g. "SET NULL".
	OnDelete string
}

// Config carries every knob the export run needs. Components receive it (or
// the relevant fields) at construction; nothing reads package-level state.
type Config struct {
	// ProjectDirName is the directory name the discovery walk looks for when
	// climbing toward the filesystem root.
	ProjectDirName string

	// DatabaseFile is the SQLite file name expected under the project root.
	DatabaseFile string

	// OutputDirName is the per-table CSV directory, created under the project
	// root if absent.
	OutputDirName string

	// SchemaFile and LoadScriptFile are the two aggregate artifacts, written
	// under the project root.
	SchemaFile     string
	LoadScriptFile string

	// RootTable is the table other tables reference by foreign key. It is
	// moved to the front of the processing order so its definition and load
	// block precede every dependent table's.
	RootTable string

	// ForeignKeyColumn is the referencing column name dependent tables use to
	// point at RootTable; load scripts prune staged rows whose value has no
	// match in RootTable.
	ForeignKeyColumn string

	// ForeignKeys is the constraint topology appended to the schema artifact.
	ForeignKeys []ForeignKey

	// Now supplies the generation timestamp for the schema artifact header.
	// Tests pin it to keep artifacts byte-identical across runs.
	Now func() time.Time
}

// Default returns the configuration the shipped binary runs with.
func Default() Config {
	return Config{
		ProjectDirName:   "gold-silver-analysis-v2",
		DatabaseFile:     "mining_companies.db",
		OutputDirName:    "exported_csvs",
		SchemaFile:       "schema_postgres.sql",
		LoadScriptFile:   "import_to_postgres.sql",
		RootTable:        "companies",
		ForeignKeyColumn: "company_id",
		ForeignKeys:      DefaultForeignKeys(),
		Now:              time.Now,
	}
}

// DefaultForeignKeys returns the eight dependent-table constraints, each a
// company_id reference back to the companies primary key with ON DELETE SET
// NULL semantics.
func DefaultForeignKeys() []ForeignKey {
	deps := []string{
		"financials",
		"capital_structure",
		"mineral_estimates",
		"production",
		"costs",
		"valuation_metrics",
		"company_urls",
		"stock_prices",
	}
	fks := make([]ForeignKey, 0, len(deps))
	for _, t := range deps {
		fks = append(fks, ForeignKey{
			Table:     t,
			Column:    "company_id",
			RefTable:  "companies",
			RefColumn: "company_id",
			OnDelete:  "SET NULL",
		})
	}
	return fks
}
