// Package reconcile turns raw search hits into display rows: it collapses
// duplicate records and orders denormalized rows by a user-chosen column.
// Every function here is total; none of them fail or mutate their input.
package reconcile

// Placeholder is shown for any value that is absent or could not be resolved.
const Placeholder = "—"

// OrPlaceholder returns s, or Placeholder when s is empty.
func OrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
