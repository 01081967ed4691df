package mint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HiDoYa/finance-pipeline/internal/domain"
	"github.com/HiDoYa/finance-pipeline/internal/errs"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadFilter_EmptyPath(t *testing.T) {
	f, err := LoadFilter("")
	if err != nil {
		t.Fatalf("LoadFilter(\"\") failed: %v", err)
	}

	txn := domain.Transaction{Category: "Coffee"}
	if !f.Keep(txn) {
		t.Error("Expected no-op filter to keep everything")
	}
	if got := f.Apply(txn); got.Category != "Coffee" {
		t.Errorf("Expected no-op filter to leave category unchanged, got %q", got.Category)
	}
}

func TestLoadFilter_Rules(t *testing.T) {
	path := writeTempFile(t, "rules.csv",
		"Type,Current,Target\n"+
			"remove,Coffee,\n"+
			"Rename,Fast Food,Dining\n"+
			"frobnicate,Ignored,Whatever\n")

	f, err := LoadFilter(path)
	if err != nil {
		t.Fatalf("LoadFilter failed: %v", err)
	}

	tests := []struct {
		name     string
		category string
		keep     bool
		renamed  string
	}{
		{"remove exact case", "Coffee", false, ""},
		{"remove is case-folded", "COFFEE", false, ""},
		{"rename is case-folded", "fast food", true, "Dining"},
		{"rename exact case", "Fast Food", true, "Dining"},
		{"unmatched category passes", "Groceries", true, "Groceries"},
		{"unknown rule type ignored", "Ignored", true, "Ignored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Category: tt.category}
			if got := f.Keep(txn); got != tt.keep {
				t.Errorf("Keep(%q) = %v, want %v", tt.category, got, tt.keep)
			}
			if !tt.keep {
				return
			}
			if got := f.Apply(txn); got.Category != tt.renamed {
				t.Errorf("Apply(%q).Category = %q, want %q", tt.category, got.Category, tt.renamed)
			}
		})
	}
}

func TestFilter_ApplyIdempotent(t *testing.T) {
	path := writeTempFile(t, "rules.csv",
		"Type,Current,Target\nrename,coffee,Dining\n")

	f, err := LoadFilter(path)
	if err != nil {
		t.Fatalf("LoadFilter failed: %v", err)
	}

	once := f.Apply(domain.Transaction{Category: "Coffee"})
	twice := f.Apply(once)
	if once.Category != twice.Category {
		t.Errorf("Apply not idempotent: %q then %q", once.Category, twice.Category)
	}
}

func TestLoadFilter_RenameWithoutTarget(t *testing.T) {
	path := writeTempFile(t, "rules.csv",
		"Type,Current,Target\nrename,coffee,\n")

	if _, err := LoadFilter(path); !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("Expected config error for rename without target, got %v", err)
	}
}

func TestLoadFilter_MissingColumn(t *testing.T) {
	path := writeTempFile(t, "rules.csv", "Type,Target\nremove,x\n")

	if _, err := LoadFilter(path); !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("Expected config error for missing Current column, got %v", err)
	}
}

func TestLoadFilter_MissingFile(t *testing.T) {
	if _, err := LoadFilter(filepath.Join(t.TempDir(), "nope.csv")); !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("Expected config error for missing rules file, got %v", err)
	}
}
