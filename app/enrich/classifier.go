package enrich

import (
	"context"
	"strings"
)

// Request is one classification call. AllowedCategories is empty when
// the category resolver already produced an authoritative category, in
// which case the capability must not decide one.
type Request struct {
	URL               string
	Context           string // optional extracted article text
	AllowedTopics     []string
	AllowedCategories []string
	IgnoreRules       []string
}

// Verdict is the structured outcome of a classification call. When
// Ignore is set the remaining fields are meaningless.
type Verdict struct {
	Topic        string
	Category     string
	Summary      string
	Ignore       bool
	IgnoreReason string
}

// Classifier is the external classification capability. Errors are
// transient by contract and subject to the engine's retry policy.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Verdict, error)
}

// Response field labels. The format is line-oriented: one labeled field
// per line, unknown lines skipped, absent labels yielding empty values.
const (
	labelTopic    = "TOPIC:"
	labelCategory = "CATEGORY:"
	labelSummary  = "SUMMARY:"
	labelIgnore   = "IGNORE:"
)

// ParseVerdict extracts a verdict from the capability's raw text reply.
// Parsing never fails: a field whose label is missing is simply empty.
// An IGNORE line wins over everything else.
func ParseVerdict(raw string) Verdict {
	var verdict Verdict

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, labelIgnore):
			verdict.Ignore = true
			verdict.IgnoreReason = strings.TrimSpace(strings.TrimPrefix(line, labelIgnore))
		case strings.HasPrefix(line, labelTopic):
			verdict.Topic = strings.TrimSpace(strings.TrimPrefix(line, labelTopic))
		case strings.HasPrefix(line, labelCategory):
			verdict.Category = strings.TrimSpace(strings.TrimPrefix(line, labelCategory))
		case strings.HasPrefix(line, labelSummary):
			verdict.Summary = strings.TrimSpace(strings.TrimPrefix(line, labelSummary))
		}
	}

	return verdict
}
