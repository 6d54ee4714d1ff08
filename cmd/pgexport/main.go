// Command pgexport reads every table of the project's SQLite database and
// produces three portable artifacts under the project root: one CSV per
// table, a PostgreSQL schema script, and an idempotent load script. It takes
// no flags; configuration is the fixed default set in internal/config.
package main

import (
	"context"
	"log"
	"os"

	"pgexport/internal/config"
	"pgexport/internal/migrate"
)

func main() {
	log.SetFlags(0)

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("pgexport: getwd: %v", err)
	}

	sum, err := migrate.Run(context.Background(), config.Default(), wd)
	if err != nil {
		log.Fatalf("pgexport: %v", err)
	}

	log.Printf("PostgreSQL schema written to %s", sum.SchemaPath)
	log.Printf("Import script written to %s", sum.LoadScriptPath)
	log.Printf("Export and schema generation complete!")
}
