package mint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"github.com/HiDoYa/finance-pipeline/internal/errs"
)

// BuildCategoryMap reads the group -> subcategories spec at path and
// inverts it into a subcategory -> group lookup. YAML and JSON specs
// are both accepted, keyed on the file extension.
//
// A subcategory listed under more than one group is a configuration
// error: silently letting the last occurrence win would hide mistakes
// in hand-maintained spec files.
func BuildCategoryMap(path string) (map[string]string, error) {
	const op = "mint.BuildCategoryMap"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.E(errs.KindConfig, op, err)
	}

	groups := make(map[string][]string)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &groups); err != nil {
			return nil, errs.E(errs.KindConfig, op, fmt.Errorf("decode yaml: %w", err))
		}
	default:
		if err := json.Unmarshal(data, &groups); err != nil {
			return nil, errs.E(errs.KindConfig, op, fmt.Errorf("decode json: %w", err))
		}
	}

	mapping := make(map[string]string)
	for group, subcategories := range groups {
		for _, sub := range subcategories {
			if prev, ok := mapping[sub]; ok {
				return nil, errs.Errorf(errs.KindConfig, op, "subcategory %q listed under both %q and %q", sub, prev, group)
			}
			mapping[sub] = group
		}
	}

	return mapping, nil
}
