package healthcareservice

import (
	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/internal/platform/catalog"
)

// SpecialtyName resolves a taxonomy code; unknown codes yield the placeholder.
func SpecialtyName(code string) string {
	if name, ok := catalog.SpecialtyName(code); ok {
		return name
	}
	return reconcile.Placeholder
}
