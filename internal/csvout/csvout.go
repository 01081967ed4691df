// Package csvout writes retained transactions back out as a plain CSV
// snapshot, useful for diffing runs or feeding other tools.
package csvout

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/HiDoYa/finance-pipeline/internal/domain"
	"github.com/HiDoYa/finance-pipeline/internal/errs"
)

// Write saves the transactions to path, one row per transaction with
// no header: date, description, category, amount. Commas are stripped
// from free-text fields so downstream comma-splitting consumers stay
// happy even though the writer quotes correctly.
func Write(path string, txns []domain.Transaction) error {
	const op = "csvout.Write"

	f, err := os.Create(path)
	if err != nil {
		return errs.E(errs.KindIO, op, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, t := range txns {
		row := []string{
			t.Date.String(),
			sanitize(t.Description),
			sanitize(t.Category),
			t.Amount.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return errs.E(errs.KindIO, op, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errs.E(errs.KindIO, op, err)
	}
	return f.Close()
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
