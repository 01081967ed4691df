package mint

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HiDoYa/finance-pipeline/internal/domain"
	"github.com/HiDoYa/finance-pipeline/internal/errs"
)

// Filter decides which export rows are kept and how their categories
// are renamed. Matching is case-insensitive: rule keys are lower-cased
// at load time and transaction categories at lookup time.
type Filter struct {
	remove map[string]bool
	rename map[string]string
}

// NewFilter returns a filter with no rules, an identity pass.
func NewFilter() *Filter {
	return &Filter{
		remove: make(map[string]bool),
		rename: make(map[string]string),
	}
}

// LoadFilter reads remove/rename rules from the CSV at path. An empty
// path yields the no-op filter. Rows with an unknown Type are ignored
// so newer rule files keep working against older binaries.
func LoadFilter(path string) (*Filter, error) {
	const op = "mint.LoadFilter"

	f := NewFilter()
	if path == "" {
		return f, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errs.E(errs.KindConfig, op, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, errs.E(errs.KindConfig, op, fmt.Errorf("read header: %w", err))
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"Type", "Current"} {
		if _, ok := idx[name]; !ok {
			return nil, errs.Errorf(errs.KindConfig, op, "missing column %q", name)
		}
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.E(errs.KindConfig, op, fmt.Errorf("line %d: %w", line, err))
		}

		current := strings.ToLower(strings.TrimSpace(row[idx["Current"]]))
		switch strings.ToLower(strings.TrimSpace(row[idx["Type"]])) {
		case "remove":
			f.remove[current] = true
		case "rename":
			targetIdx, ok := idx["Target"]
			if !ok || strings.TrimSpace(row[targetIdx]) == "" {
				return nil, errs.Errorf(errs.KindConfig, op, "line %d: rename rule for %q has no target", line, current)
			}
			f.rename[current] = strings.TrimSpace(row[targetIdx])
		}
	}

	return f, nil
}

// Keep reports whether the transaction survives the remove rules.
func (f *Filter) Keep(t domain.Transaction) bool {
	return !f.remove[strings.ToLower(t.Category)]
}

// Apply returns the transaction with any rename rule applied. Once the
// category is not a rename key the result is a fixed point.
func (f *Filter) Apply(t domain.Transaction) domain.Transaction {
	if target, ok := f.rename[strings.ToLower(t.Category)]; ok {
		t.Category = target
	}
	return t
}
