package feed

import (
	"net/url"
	"strings"
)

// SocialFilter classifies URLs as originating from a social-media
// platform based on a configured hostname pattern set.
type SocialFilter struct {
	patterns []string
}

func NewSocialFilter(patterns []string) *SocialFilter {
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &SocialFilter{patterns: lowered}
}

// IsSocial reports whether the URL's host matches a configured pattern
// exactly or as a subdomain of it. URLs that fail to parse are treated
// as non-social.
func (f *SocialFilter) IsSocial(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, pattern := range f.patterns {
		if host == pattern || strings.HasSuffix(host, "."+pattern) {
			return true
		}
	}
	return false
}
