package feed

import (
	"time"
)

// Rejections are only audited when the item was published within this
// window of evaluation time. Very old excluded items would otherwise
// grow the audit log without bound.
const auditRecency = 48 * time.Hour

// Ledger tracks which normalized URLs have already been admitted and
// which were explicitly excluded this run. It is seeded from the
// persisted state so previously seen items are rejected as duplicates.
type Ledger struct {
	social          *SocialFilter
	seen            map[string]struct{}
	excludedThisRun map[string]struct{}
	ignored         []IgnoredItem
	now             func() time.Time
}

func NewLedger(social *SocialFilter, persisted []Item, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}

	seen := make(map[string]struct{}, len(persisted))
	for _, item := range persisted {
		seen[item.Link] = struct{}{}
	}

	return &Ledger{
		social:          social,
		seen:            seen,
		excludedThisRun: make(map[string]struct{}),
		now:             now,
	}
}

// Admit decides whether an item enters the run. Rejections return the
// reason; admitting the same normalized URL twice is impossible because
// admission itself marks the URL as seen.
func (l *Ledger) Admit(item Item) (bool, string) {
	if l.social != nil && l.social.IsSocial(item.Link) {
		l.recordIgnored(item, ReasonSocialMedia)
		return false, ReasonSocialMedia
	}

	if _, ok := l.seen[item.Link]; ok {
		l.recordIgnored(item, ReasonDuplicate)
		return false, ReasonDuplicate
	}

	l.seen[item.Link] = struct{}{}
	return true, ""
}

// Ignored returns the audit records collected this run, at most one per
// URL.
func (l *Ledger) Ignored() []IgnoredItem {
	return l.ignored
}

func (l *Ledger) recordIgnored(item Item, reason string) {
	if _, ok := l.excludedThisRun[item.Link]; ok {
		return
	}

	now := l.now()
	if item.PublishedAt.Before(now.Add(-auditRecency)) {
		return
	}

	l.excludedThisRun[item.Link] = struct{}{}
	l.ignored = append(l.ignored, IgnoredItem{
		URL:          item.Link,
		Reason:       reason,
		Title:        item.Title,
		DiscoveredAt: now,
	})
}
