package catalog

import (
	"fmt"
	"maps"
	"slices"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
)

// ValidateSchema checks a ProgramSchema for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateSchema(schema *ProgramSchema) []error {
	var errs []error

	if schema.ID == "" {
		errs = append(errs, fmt.Errorf("program id is required"))
	}
	if schema.Name == "" {
		errs = append(errs, fmt.Errorf("program name is required"))
	}
	if _, err := budget.ParseCostModel(schema.CostModel); err != nil {
		errs = append(errs, err)
	}
	if len(schema.Facilities) == 0 {
		errs = append(errs, fmt.Errorf("at least one facility type is required"))
	}

	for _, ft := range slices.Sorted(maps.Keys(schema.Facilities)) {
		categories := schema.Facilities[ft]
		if _, err := domain.ParseFacilityType(ft); err != nil {
			errs = append(errs, fmt.Errorf("facilities: %w", err))
			continue
		}
		if len(categories) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one category is required", ft))
		}

		seenCategory := map[string]bool{}
		seenKey := map[domain.ActivityKey]bool{}
		for i, c := range categories {
			if c.Name == "" {
				errs = append(errs, fmt.Errorf("%s: category[%d]: name is required", ft, i))
			}
			if seenCategory[c.Name] {
				errs = append(errs, fmt.Errorf("%s: category[%d]: duplicate name %q", ft, i, c.Name))
			}
			seenCategory[c.Name] = true

			for j, a := range c.Activities {
				if a.TypeOfActivity == "" {
					errs = append(errs, fmt.Errorf("%s: %s: activity[%d]: type_of_activity is required", ft, c.Name, j))
				}
				key := domain.ActivityKey{Category: c.Name, TypeOfActivity: a.TypeOfActivity, Activity: a.Activity}
				if seenKey[key] {
					errs = append(errs, fmt.Errorf("%s: activity[%d]: duplicate %s", ft, j, key))
				}
				seenKey[key] = true
			}
		}
	}

	return errs
}
