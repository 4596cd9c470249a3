package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Readable text sent as classification context is capped so prompts
// stay within model limits.
const maxContextChars = 4000

// ContentExtractor fetches an item's page and extracts its readable
// text. Used only when the feed itself carried no description.
type ContentExtractor struct {
	client    *http.Client
	userAgent string
}

func NewContentExtractor(client *http.Client, userAgent string) *ContentExtractor {
	if client == nil {
		client = http.DefaultClient
	}
	return &ContentExtractor{client: client, userAgent: userAgent}
}

func (e *ContentExtractor) Run(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	if len(text) > maxContextChars {
		text = text[:maxContextChars]
	}

	return text, nil
}
