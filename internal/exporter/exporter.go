// Package exporter locates the transactions export to feed the
// pipeline. The only implementation reads a file a browser session or
// scraper already dropped into the download directory; the interface
// leaves room for a fetching implementation later.
package exporter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/HiDoYa/finance-pipeline/internal/errs"
	"github.com/HiDoYa/finance-pipeline/internal/logger"
)

// exportFileName is the fixed name of the CSV export inside the
// download directory.
const exportFileName = "transactions.csv"

// Exporter produces a path to a transactions CSV export ready for
// parsing.
type Exporter interface {
	Export(ctx context.Context) (string, error)
}

// LocalExport serves a pre-downloaded export from a local directory.
type LocalExport struct {
	Dir string
}

var _ Exporter = (*LocalExport)(nil)

// Export verifies the export file exists and is non-empty, returning
// its full path.
func (l *LocalExport) Export(ctx context.Context) (string, error) {
	const op = "exporter.Export"
	log := logger.FromContext(ctx)

	path := filepath.Join(l.Dir, exportFileName)
	info, err := os.Stat(path)
	if err != nil {
		return "", errs.E(errs.KindIO, op, err)
	}
	if info.Size() == 0 {
		return "", errs.Errorf(errs.KindIO, op, "export %s is empty", path)
	}

	log.Info().Str("path", path).Int64("bytes", info.Size()).Msg("Using local export")
	return path, nil
}
