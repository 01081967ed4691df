package mint

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/HiDoYa/finance-pipeline/internal/domain"
	"github.com/HiDoYa/finance-pipeline/internal/errs"
)

// Columns the transactions export must carry.
var requiredColumns = []string{"Date", "Original Description", "Amount", "Category", "Transaction Type"}

// Accepted Date layouts: the portal exports US-style dates; ISO dates
// appear in hand-maintained fixtures.
var dateLayouts = []string{"1/02/2006", "2006-01-02"}

// ParseTransactions decodes the export at exportPath, applies the
// filter rules at filterPath (empty means no rules), and returns the
// surviving transactions sorted ascending by date; ties keep export
// order. Only debit rows are considered; credit rows are excluded
// outright, never negated.
//
// Per row the stages run in order: transaction-type filter, then
// remove rules, then rename rules, so renames are never computed for
// rows about to be dropped. Any malformed row aborts the whole parse:
// one wrong row usually means the export schema changed.
func ParseTransactions(exportPath, filterPath string) ([]domain.Transaction, error) {
	const op = "mint.ParseTransactions"

	filter, err := LoadFilter(filterPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(exportPath)
	if err != nil {
		return nil, errs.E(errs.KindIO, op, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, errs.E(errs.KindFormat, op, fmt.Errorf("read header: %w", err))
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, errs.Errorf(errs.KindFormat, op, "missing column %q", name)
		}
	}

	var txns []domain.Transaction
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.E(errs.KindFormat, op, fmt.Errorf("line %d: %w", line, err))
		}

		if strings.ToLower(strings.TrimSpace(row[idx["Transaction Type"]])) != "debit" {
			continue
		}

		date, err := parseDate(row[idx["Date"]])
		if err != nil {
			return nil, errs.E(errs.KindFormat, op, fmt.Errorf("line %d: %w", line, err))
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row[idx["Amount"]]))
		if err != nil {
			return nil, errs.E(errs.KindFormat, op, fmt.Errorf("line %d: amount %q: %w", line, row[idx["Amount"]], err))
		}

		t := domain.Transaction{
			Date:        date,
			Description: row[idx["Original Description"]],
			Amount:      amount,
			Category:    row[idx["Category"]],
		}

		if !filter.Keep(t) {
			continue
		}
		txns = append(txns, filter.Apply(t))
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})

	return txns, nil
}

func parseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("unparseable date %q", s)
}
