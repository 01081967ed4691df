package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction is one debit row from the transactions export. It is
// constructed once by the parser and never mutated afterwards; the
// filter returns modified copies.
//
// Amount is a magnitude. The export tags rows with a separate
// debit/credit flag and only debit rows survive parsing, so no sign
// convention is carried here.
type Transaction struct {
	Date        civil.Date      // calendar date of the charge
	Description string          // "Original Description" column
	Amount      decimal.Decimal // decimal magnitude
	Category    string          // raw subcategory (or a rename target)
}

// MonthLabel returns the title of the destination sheet for this
// transaction's month, e.g. "March 2024".
func (t Transaction) MonthLabel() string {
	return fmt.Sprintf("%s %d", t.Date.Month, t.Date.Year)
}
