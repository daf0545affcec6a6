package reconcile

// KeyFunc extracts a natural key. ok is false when the record carries none.
type KeyFunc[T any] func(T) (key string, ok bool)

// Dedupe keeps the first occurrence of every non-empty key and drops later
// records carrying the same key. Records without a key are never treated as
// duplicates. The result preserves input order.
func Dedupe[T any](items []T, key KeyFunc[T]) []T {
	if items == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k, ok := key(item)
		if !ok || k == "" {
			out = append(out, item)
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
