// ABOUTME: First-seen-wins deduplication for warning candidate records.
// ABOUTME: Two records are duplicates iff message and line reference are both equal.

package texlog

// dedupKey is the identity of a record for deduplication purposes. LineRef
// is a comparable value type, so the pair can key a map directly.
type dedupKey struct {
	message string
	ref     LineRef
}

// Dedup returns the records with exact duplicates removed, keeping the
// first occurrence of each (message, reference) pair in scan order. The
// input is not modified.
func Dedup(records []Record) []Record {
	seen := make(map[dedupKey]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		key := dedupKey{message: rec.Message, ref: rec.Ref}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}
