package sheets

import (
	"sort"
	"strings"
)

// categoryFormula builds the SWITCH formula that derives a display
// group from the subcategory cell one column to the left, falling back
// to "Uncategorized". Entries are sorted by subcategory so the formula
// is stable across runs.
//
// Keys and values are embedded verbatim: a quote or comma inside a
// subcategory name breaks the formula. Known limitation.
func categoryFormula(categoryMap map[string]string) string {
	subcategories := subcategoryNames(categoryMap)

	var b strings.Builder
	b.WriteString("=SWITCH(INDIRECT(ADDRESS(ROW(),COLUMN()-1))")
	for _, sub := range subcategories {
		b.WriteString(`,"` + sub + `","` + categoryMap[sub] + `"`)
	}
	b.WriteString(`, "Uncategorized")`)
	return b.String()
}

// subcategoryNames returns the map's keys sorted.
func subcategoryNames(categoryMap map[string]string) []string {
	names := make([]string, 0, len(categoryMap))
	for sub := range categoryMap {
		names = append(names, sub)
	}
	sort.Strings(names)
	return names
}
