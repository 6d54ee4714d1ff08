// Package migrate is the orchestrator: it discovers the source database,
// reads the catalog, and drives the per-table export, schema translation, and
// load-script generation in a single sequential pass. Each component returns
// an immutable result; this package concatenates them in catalog order and
// writes the two aggregate artifacts.
package migrate

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pgexport/internal/catalog"
	"pgexport/internal/config"
	"pgexport/internal/discover"
	"pgexport/internal/export"
	"pgexport/internal/loadgen"
	"pgexport/internal/pgddl"
)

// Summary reports a completed run.
type Summary struct {
	// ProjectRoot is the discovered project directory.
	ProjectRoot string

	// SchemaPath and LoadScriptPath are the two aggregate artifacts.
	SchemaPath     string
	LoadScriptPath string

	// Exports holds the per-table row artifact results, in processing order.
	Exports []export.Result
}

// Run executes the full pipeline starting the project-root search at
// startDir. Tables are processed strictly sequentially over one source
// connection, root entity first; the connection is closed when Run returns,
// success or not.
//
// Discovery and artifact I/O errors abort the run. Per-value cleaning
// problems never do; they are absorbed as NULLs during export.
func Run(ctx context.Context, cfg config.Config, startDir string) (Summary, error) {
	root, err := discover.ProjectRoot(startDir, cfg.ProjectDirName)
	if err != nil {
		return Summary{}, err
	}
	dbPath, err := discover.DatabasePath(root, cfg.DatabaseFile)
	if err != nil {
		return Summary{}, err
	}

	outDir := filepath.Join(root, cfg.OutputDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("migrate: create output dir: %w", err)
	}

	db, closeDB, err := catalog.Open(ctx, dbPath)
	if err != nil {
		return Summary{}, err
	}
	defer closeDB()

	tables, err := catalog.Read(ctx, db, cfg.RootTable)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{ProjectRoot: root}
	blocks := make([]string, 0, len(tables))
	for _, t := range tables {
		log.Printf("Exporting table: %s", t.Name)
		res, err := export.Table(ctx, db, t, outDir)
		if err != nil {
			return Summary{}, err
		}
		log.Printf("Exported %s to %s with %d rows (xxh3 %016x)",
			t.Name, res.Path, res.Rows, res.Checksum)

		sum.Exports = append(sum.Exports, res)
		blocks = append(blocks, loadgen.Script(t, res.Path, cfg.RootTable, cfg.ForeignKeyColumn))
	}

	schema := pgddl.BuildSchemaScript(tables, cfg.ForeignKeys, cfg.Now())
	sum.SchemaPath = filepath.Join(root, cfg.SchemaFile)
	if err := os.WriteFile(sum.SchemaPath, []byte(schema), 0o644); err != nil {
		return Summary{}, fmt.Errorf("migrate: write schema: %w", err)
	}

	// Each block already ends with a newline; concatenating keeps the
	// statement stream contiguous.
	sum.LoadScriptPath = filepath.Join(root, cfg.LoadScriptFile)
	script := strings.Join(blocks, "")
	if err := os.WriteFile(sum.LoadScriptPath, []byte(script), 0o644); err != nil {
		return Summary{}, fmt.Errorf("migrate: write load script: %w", err)
	}

	return sum, nil
}
