package feed

import (
	"net/url"
	"strings"
)

type categoryRule struct {
	hosts    []string
	paths    []string
	category string
}

// Ordered rule table, first match wins. Hosts match the hostname or any
// subdomain of it; paths match as substrings of the URL path.
var categoryRules = []categoryRule{
	{hosts: []string{"youtube.com", "youtu.be"}, category: CategoryVideo},
	{hosts: []string{"podbean.com"}, category: CategoryPodcast},
	{hosts: []string{"github.com"}, category: CategorySourceCode},
	{hosts: []string{"medium.com", "odoe.net", "josiahparry.com", "highearthorbit.com"}, category: CategoryBlog},
	{paths: []string{"/blog", "/rss/board"}, category: CategoryBlog},
}

// ResolveCategory maps URL shape to a category. Returns
// CategoryUndetermined when no rule matches, deferring to the
// enrichment engine.
func ResolveCategory(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return CategoryUndetermined
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.Path)

	for _, rule := range categoryRules {
		for _, h := range rule.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return rule.category
			}
		}
		for _, p := range rule.paths {
			if strings.Contains(path, p) {
				return rule.category
			}
		}
	}

	return CategoryUndetermined
}
