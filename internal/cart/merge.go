package cart

// NotesMismatch flags two contributions to the same configuration key that
// disagree on special notes. Duplicates like this come from historical add
// bugs, not intent, so the merge keeps the last value and surfaces the
// conflict to the caller instead of resolving it silently.
type NotesMismatch struct {
	Key       string
	Kept      string
	Discarded string
}

// Merge collapses the list so no two entries share a configuration key.
// Quantities are summed. Non-quantity scalar fields are last-seen-wins, with
// one exception: a populated BackendID is never overwritten by an empty one,
// so backend-sourced entries keep their identity over purely local drafts.
// Merging an already-merged list returns it unchanged.
func Merge(items []LineItem) ([]LineItem, []NotesMismatch) {
	if len(items) == 0 {
		return nil, nil
	}

	merged := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	var mismatches []NotesMismatch

	for _, item := range items {
		key := item.ConfigKey()
		at, seen := index[key]
		if !seen {
			index[key] = len(merged)
			item.Toppings = normalizeToppings(item.Toppings)
			merged = append(merged, item)
			continue
		}

		existing := &merged[at]
		if existing.SpecialNotes != item.SpecialNotes {
			mismatches = append(mismatches, NotesMismatch{
				Key:       key,
				Kept:      item.SpecialNotes,
				Discarded: existing.SpecialNotes,
			})
		}

		quantity := existing.Quantity + item.Quantity
		backendID := existing.BackendID
		if item.BackendID != "" {
			backendID = item.BackendID
		}

		item.Toppings = normalizeToppings(item.Toppings)
		*existing = item
		existing.Quantity = quantity
		existing.BackendID = backendID
	}

	return merged, mismatches
}
