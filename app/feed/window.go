package feed

import (
	"time"
)

// FilterByWindow retains items published within the trailing window
// ending at now. The cutoff is inclusive. A zero window passes all
// items through unchanged. The window applies to newly admitted items
// only; previously persisted items are never re-filtered by age.
func FilterByWindow(items []Item, window time.Duration, now time.Time) []Item {
	if window <= 0 {
		return items
	}

	cutoff := now.Add(-window)
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.PublishedAt.Before(cutoff) {
			kept = append(kept, item)
		}
	}
	return kept
}
