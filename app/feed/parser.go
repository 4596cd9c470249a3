package feed

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/mmcdole/gofeed"
)

// Parser turns raw RSS/Atom documents into normalized items.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses feed data and returns normalized items. Entries without
// any parseable publication date are dropped and logged; they carry no
// position on the timeline and are never retried.
func (p *Parser) Run(data []byte, sourceURL string) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		published := entry.PublishedParsed
		if published == nil {
			published = entry.UpdatedParsed
		}
		if published == nil {
			slog.Error("Item without publication date dropped", "source", sourceURL, "title", entry.Title)
			continue
		}

		link := NormalizeURL(entry.Link)

		items = append(items, Item{
			GUID:        coalesce(entry.GUID, link),
			Title:       entry.Title,
			Link:        link,
			Description: coalesce(entry.Content, entry.Description),
			Author:      entryAuthor(entry),
			PublishedAt: *published,
		})
	}

	return items, nil
}

func entryAuthor(entry *gofeed.Item) string {
	if entry.Author != nil && entry.Author.Name != "" {
		return entry.Author.Name
	}
	for _, author := range entry.Authors {
		if author != nil && author.Name != "" {
			return author.Name
		}
	}
	return ""
}

// coalesce returns the first non-empty string from the provided values
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
