package fhir

import (
	"strings"
)

// SortSpec represents a single _sort directive.
type SortSpec struct {
	Field      string
	Descending bool
}

// ParseSort parses the _sort query parameter value.
// Format: "-city,providerName" means city DESC, providerName ASC.
// Blank segments and a bare "-" are dropped.
func ParseSort(sortParam string) []SortSpec {
	if strings.TrimSpace(sortParam) == "" {
		return nil
	}

	var specs []SortSpec
	for _, part := range strings.Split(sortParam, ",") {
		part = strings.TrimSpace(part)
		field, desc := strings.CutPrefix(part, "-")
		if field == "" {
			continue
		}
		specs = append(specs, SortSpec{Field: field, Descending: desc})
	}
	return specs
}

// PrimarySort returns the first directive of a _sort value. Result tables are
// ordered by a single column, so later directives are ignored.
func PrimarySort(sortParam string) (SortSpec, bool) {
	specs := ParseSort(sortParam)
	if len(specs) == 0 {
		return SortSpec{}, false
	}
	return specs[0], true
}
