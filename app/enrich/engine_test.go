package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogarral/rss-curator/app/config"
	"github.com/ogarral/rss-curator/app/feed"
)

type fakeClassifier struct {
	calls    int
	requests []Request
	verdicts []Verdict
	errs     []error
}

func (f *fakeClassifier) Classify(ctx context.Context, req Request) (Verdict, error) {
	idx := f.calls
	f.calls++
	f.requests = append(f.requests, req)

	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	if err != nil {
		return Verdict{}, err
	}

	var verdict Verdict
	if idx < len(f.verdicts) {
		verdict = f.verdicts[idx]
	}
	return verdict, nil
}

func testTaxonomy() *config.Taxonomy {
	return &config.Taxonomy{
		Topics:      []string{"ArcGIS Pro", "ArcGIS Online"},
		Categories:  []string{"Video", "Blog", "Podcast", "Source-code", "News"},
		IgnoreRules: []string{"job postings"},
	}
}

func testPolicy(sleeps *[]time.Duration) RetryPolicy {
	policy := NewRetryPolicy(3, 2*time.Second)
	policy.Sleep = func(ctx context.Context, d time.Duration) error {
		if sleeps != nil {
			*sleeps = append(*sleeps, d)
		}
		return nil
	}
	return policy
}

func TestEngine_StructuredVerdict(t *testing.T) {
	classifier := &fakeClassifier{
		verdicts: []Verdict{{Topic: "ArcGIS Pro", Category: "News", Summary: "A summary."}},
	}
	engine := NewEngine(classifier, nil, testTaxonomy(), testPolicy(nil))

	items := []feed.Item{{Link: "https://news.example/story", Title: "Story"}}
	items, _ = engine.Run(context.Background(), items, false)

	item := items[0]
	if !item.Enriched {
		t.Errorf("Expected item marked enriched")
	}
	if item.Topic != "ArcGIS Pro" || item.Summary != "A summary." {
		t.Errorf("Expected topic and summary set, got %q / %q", item.Topic, item.Summary)
	}
	if item.Category != "News" {
		t.Errorf("Expected capability category accepted, got %q", item.Category)
	}
	if classifier.calls != 1 {
		t.Errorf("Expected 1 classification call, got %d", classifier.calls)
	}
}

func TestEngine_ResolverCategoryIsAuthoritative(t *testing.T) {
	classifier := &fakeClassifier{
		verdicts: []Verdict{{Topic: "ArcGIS Online", Category: "News", Summary: "S."}},
	}
	engine := NewEngine(classifier, nil, testTaxonomy(), testPolicy(nil))

	items := []feed.Item{{Link: "https://www.youtube.com/watch?v=abc"}}
	items, _ = engine.Run(context.Background(), items, false)

	if items[0].Category != feed.CategoryVideo {
		t.Errorf("Expected resolver category kept, got %q", items[0].Category)
	}
	if len(classifier.requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(classifier.requests))
	}
	if len(classifier.requests[0].AllowedCategories) != 0 {
		t.Errorf("Expected category omitted from decision space when already resolved")
	}
}

func TestEngine_IgnoreVerdict(t *testing.T) {
	classifier := &fakeClassifier{
		verdicts: []Verdict{{Ignore: true, IgnoreReason: "job posting"}},
	}
	engine := NewEngine(classifier, nil, testTaxonomy(), testPolicy(nil))

	items := []feed.Item{{Link: "https://news.example/job"}}
	items, _ = engine.Run(context.Background(), items, false)

	item := items[0]
	if !item.Enriched {
		t.Errorf("Expected excluded item still marked enriched")
	}
	if !item.Excluded {
		t.Errorf("Expected item marked excluded")
	}
	if item.ExcludeReason != "job posting" {
		t.Errorf("Expected exclude reason set, got %q", item.ExcludeReason)
	}
}

func TestEngine_TransientFailureRetries(t *testing.T) {
	transient := errors.New("upstream unavailable")
	classifier := &fakeClassifier{
		errs:     []error{transient, transient},
		verdicts: []Verdict{{}, {}, {Topic: "ArcGIS Pro", Summary: "Made it."}},
	}
	var sleeps []time.Duration
	engine := NewEngine(classifier, nil, testTaxonomy(), testPolicy(&sleeps))

	items := []feed.Item{{Link: "https://www.youtube.com/watch?v=abc"}}
	items, _ = engine.Run(context.Background(), items, false)

	if classifier.calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", classifier.calls)
	}
	if items[0].EnrichmentError != "" {
		t.Errorf("Expected success after retries, got error %q", items[0].EnrichmentError)
	}
	if items[0].Topic != "ArcGIS Pro" {
		t.Errorf("Expected topic from final attempt, got %q", items[0].Topic)
	}

	// Backoff grows linearly with the attempt number.
	if len(sleeps) != 2 {
		t.Fatalf("Expected 2 sleeps, got %d", len(sleeps))
	}
	if sleeps[0] != 2*time.Second || sleeps[1] != 4*time.Second {
		t.Errorf("Expected linear backoff 2s, 4s, got %v", sleeps)
	}
}

func TestEngine_ExhaustedRetriesRecordTerminalError(t *testing.T) {
	transient := errors.New("upstream unavailable")
	classifier := &fakeClassifier{
		errs: []error{transient, transient, transient},
	}
	engine := NewEngine(classifier, nil, testTaxonomy(), testPolicy(nil))

	items := []feed.Item{{Link: "https://www.youtube.com/watch?v=abc", Topic: ""}}
	items, _ = engine.Run(context.Background(), items, false)

	item := items[0]
	if classifier.calls != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", classifier.calls)
	}
	if !item.Enriched {
		t.Errorf("Expected item marked enriched after exhaustion")
	}
	if item.EnrichmentError == "" {
		t.Errorf("Expected enrichment error recorded")
	}
	if item.Topic != "" || item.Summary != "" {
		t.Errorf("Expected topic/summary untouched after failure, got %q / %q", item.Topic, item.Summary)
	}
	if item.Excluded {
		t.Errorf("Expected failed item not to be excluded")
	}
}

func TestEngine_EnrichmentFinality(t *testing.T) {
	classifier := &fakeClassifier{}
	engine := NewEngine(classifier, nil, testTaxonomy(), testPolicy(nil))

	items := []feed.Item{{
		Link:     "https://news.example/story",
		Topic:    "ArcGIS Pro",
		Summary:  "Already enriched.",
		Category: "News",
		Enriched: true,
	}}
	items, _ = engine.Run(context.Background(), items, false)

	if classifier.calls != 0 {
		t.Errorf("Expected no classification calls for enriched items, got %d", classifier.calls)
	}
	if items[0].Topic != "ArcGIS Pro" || items[0].Summary != "Already enriched." || items[0].Category != "News" {
		t.Errorf("Expected enriched item unchanged: %+v", items[0])
	}
}

func TestEngine_InvalidCategoryFromCapability(t *testing.T) {
	classifier := &fakeClassifier{
		verdicts: []Verdict{{Topic: "ArcGIS Pro", Category: "Made-up", Summary: "S."}},
	}
	engine := NewEngine(classifier, nil, testTaxonomy(), testPolicy(nil))

	items := []feed.Item{{Link: "https://news.example/story"}}
	items, _ = engine.Run(context.Background(), items, false)

	if items[0].Category != feed.CategoryUndetermined {
		t.Errorf("Expected out-of-taxonomy category rejected, got %q", items[0].Category)
	}
}

func TestEngine_CancelledRunLeavesItemsUntouched(t *testing.T) {
	classifier := &fakeClassifier{}
	engine := NewEngine(classifier, nil, testTaxonomy(), testPolicy(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []feed.Item{
		{Link: "https://news.example/first"},
		{Link: "https://news.example/second"},
	}
	items, err := engine.Run(ctx, items, false)

	if err == nil {
		t.Fatal("Expected cancellation error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if classifier.calls != 0 {
		t.Errorf("Expected no classification calls after cancellation, got %d", classifier.calls)
	}
	for i, item := range items {
		if item.Enriched {
			t.Errorf("Item %d marked enriched by a cancelled run", i)
		}
		if item.EnrichmentError != "" {
			t.Errorf("Item %d carries an enrichment error from a cancelled run: %q", i, item.EnrichmentError)
		}
	}
}

func TestEngine_CancellationDuringRetryAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	classifier := &fakeClassifier{errs: []error{errors.New("boom"), errors.New("boom")}}

	policy := NewRetryPolicy(3, 2*time.Second)
	policy.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}
	engine := NewEngine(classifier, nil, testTaxonomy(), policy)

	items := []feed.Item{{Link: "https://news.example/story"}}
	items, err := engine.Run(ctx, items, false)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if classifier.calls != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", classifier.calls)
	}
	if items[0].Enriched || items[0].EnrichmentError != "" {
		t.Errorf("Expected item untouched after aborted retry: %+v", items[0])
	}
}
