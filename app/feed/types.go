package feed

import (
	"time"
)

// Categories assigned by the resolver or the enrichment engine. The
// empty string means the category is still undetermined.
const (
	CategoryUndetermined = ""
	CategoryVideo        = "Video"
	CategoryBlog         = "Blog"
	CategoryPodcast      = "Podcast"
	CategorySourceCode   = "Source-code"
)

// Rejection reasons recorded by the dedup ledger.
const (
	ReasonSocialMedia = "social-media"
	ReasonDuplicate   = "duplicate"
)

// Item is one syndicated entry. Link is the identity key: at most one
// Item per normalized link exists in a reconciled set.
type Item struct {
	GUID        string    `json:"guid"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`

	Category string `json:"category,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Summary  string `json:"summary,omitempty"`

	Enriched        bool   `json:"enriched"`
	Excluded        bool   `json:"excluded,omitempty"`
	ExcludeReason   string `json:"exclude_reason,omitempty"`
	EnrichmentError string `json:"enrichment_error,omitempty"`
}

// IgnoredItem is an audit record for a URL excluded during admission.
type IgnoredItem struct {
	URL          string
	Reason       string
	Title        string
	DiscoveredAt time.Time
}

// State is the durable snapshot a run starts from and ends with.
type State struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
	Items       []Item    `json:"items"`
}
