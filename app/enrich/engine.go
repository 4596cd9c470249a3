package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ogarral/rss-curator/app/config"
	"github.com/ogarral/rss-curator/app/feed"
)

// Engine determines topic, summary and (when the resolver left it
// undetermined) category for items that have not been enriched yet.
// Enrichment is at-most-once per item for the lifetime of persisted
// state: whatever the outcome, the item leaves with Enriched set and is
// never presented to the capability again.
type Engine struct {
	classifier Classifier
	extractor  *ContentExtractor
	taxonomy   *config.Taxonomy
	policy     RetryPolicy
}

func NewEngine(classifier Classifier, extractor *ContentExtractor, taxonomy *config.Taxonomy, policy RetryPolicy) *Engine {
	return &Engine{
		classifier: classifier,
		extractor:  extractor,
		taxonomy:   taxonomy,
		policy:     policy,
	}
}

// Run enriches every not-yet-enriched item in place, strictly serially,
// one classification call at a time. Capability failures never abort the
// run; they end up on the item as a terminal enrichment error. Context
// cancellation does abort: the remaining items are left un-enriched so
// a later run can classify them.
func (e *Engine) Run(ctx context.Context, items []feed.Item, extractContent bool) ([]feed.Item, error) {
	enrichedCount := 0
	for i := range items {
		if items[i].Enriched {
			continue
		}
		if err := e.enrichItem(ctx, &items[i], extractContent); err != nil {
			return items, err
		}
		enrichedCount++
	}

	if enrichedCount > 0 {
		slog.Info("Enrichment pass completed", "items", enrichedCount)
	}
	return items, nil
}

func (e *Engine) enrichItem(ctx context.Context, item *feed.Item, extractContent bool) error {
	// The rule-based resolver runs first; its category is authoritative
	// and removes category from the capability's decision space.
	if item.Category == feed.CategoryUndetermined {
		item.Category = feed.ResolveCategory(item.Link)
	}

	// Without a classifier the item stays unenriched and is picked up
	// by a later run once one is configured.
	if e.classifier == nil {
		return nil
	}

	req := Request{
		URL:           item.Link,
		AllowedTopics: e.taxonomy.Topics,
		IgnoreRules:   e.taxonomy.IgnoreRules,
	}
	if item.Category == feed.CategoryUndetermined {
		req.AllowedCategories = e.taxonomy.Categories
	}

	if extractContent && item.Description == "" && e.extractor != nil {
		text, err := e.extractor.Run(ctx, item.Link)
		if err != nil {
			slog.Debug("Content extraction failed", "link", item.Link, "error", err)
		} else {
			req.Context = text
		}
	}

	var verdict Verdict
	err := e.policy.Do(ctx, func() error {
		v, classifyErr := e.classifier.Classify(ctx, req)
		if classifyErr != nil {
			return classifyErr
		}
		verdict = v
		return nil
	})

	if err != nil {
		// A cancelled run is an abort, not a capability failure: the
		// item must stay un-enriched so it can be classified later.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Prior field values stay untouched: a failed attempt never
		// partially overwrites an item.
		item.Enriched = true
		item.EnrichmentError = err.Error()
		slog.Error("Enrichment failed", "link", item.Link, "error", err)
		return nil
	}

	item.Enriched = true

	if verdict.Ignore {
		item.Excluded = true
		item.ExcludeReason = verdict.IgnoreReason
		slog.Info("Item excluded by classification", "link", item.Link, "reason", verdict.IgnoreReason)
		return nil
	}

	item.Topic = verdict.Topic
	item.Summary = verdict.Summary
	if len(req.AllowedCategories) > 0 {
		item.Category = e.canonicalCategory(verdict.Category)
	}
	return nil
}

// canonicalCategory maps the capability's category answer onto the
// closed taxonomy list, tolerating case differences. Anything outside
// the list leaves the category undetermined.
func (e *Engine) canonicalCategory(category string) string {
	category = strings.TrimSpace(category)
	for _, allowed := range e.taxonomy.Categories {
		if strings.EqualFold(category, allowed) {
			return allowed
		}
	}
	return feed.CategoryUndetermined
}
