package feed

import (
	"net/url"
	"strings"
)

// Redirect-wrapper hosts whose "url" query parameter carries the real
// target (Google Alerts links arrive wrapped this way).
var redirectHosts = map[string]bool{
	"google.com":     true,
	"www.google.com": true,
}

// NormalizeURL canonicalizes a raw link so identity comparisons are
// stable. Malformed URLs pass through unchanged: a broken link must not
// abort the pipeline.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if redirectHosts[strings.ToLower(parsed.Host)] && parsed.Path == "/url" {
		if target := parsed.Query().Get("url"); target != "" {
			return target
		}
	}

	return raw
}
