package feed

import (
	"sort"
)

// Reconcile merges previously persisted items with newly admitted ones
// and orders the result by descending publication time. The sort is
// stable so ties keep input order. This ordering is the single contract
// every rendered artifact relies on.
func Reconcile(persisted, admitted []Item) []Item {
	merged := make([]Item, 0, len(persisted)+len(admitted))
	merged = append(merged, persisted...)
	merged = append(merged, admitted...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	return merged
}
