package output

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ogarral/rss-curator/app/cfg"
	"github.com/ogarral/rss-curator/app/feed"
)

// Generator renders a group's state as an RSS 2.0 document.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(groupName string, state *feed.State, now time.Time) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	title := fmt.Sprintf("%s - %s", state.Title, now.Format("02-01-2006"))
	g.writeElement(&buf, "title", title, 4)

	var selfLink string
	if cfg.Get().BaseUrl != "" {
		selfLink = fmt.Sprintf("%s/feeds/%s", cfg.Get().BaseUrl, groupName)
	} else {
		selfLink = fmt.Sprintf("http://localhost:%s/feeds/%s", cfg.Get().Port, groupName)
	}
	g.writeElement(&buf, "link", selfLink, 4)
	g.writeElement(&buf, "description", cmp.Or(state.Description, fmt.Sprintf("Curated items for %s", groupName)), 4)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := state.LastUpdated
	if lastBuildDate.IsZero() {
		lastBuildDate = now
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("RSS Curator/%s", cfg.Get().Version), 4)

	for _, item := range state.Items {
		if item.Excluded {
			continue
		}
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String()
}

func (g *Generator) writeItem(buf *bytes.Buffer, item feed.Item) {
	buf.WriteString("    <item>\n")

	if item.GUID != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(item.GUID)))
		xml.EscapeText(buf, []byte(item.GUID))
		buf.WriteString("</guid>\n")
	}

	if item.Title != "" {
		g.writeElement(buf, "title", item.Title, 6)
	}

	if item.Link != "" {
		g.writeElement(buf, "link", item.Link, 6)
	}

	buf.WriteString("      <description><![CDATA[")
	buf.WriteString(sanitizeCDATA(cmp.Or(item.Summary, item.Description, "No description available")))
	buf.WriteString("]]></description>\n")

	g.writeElement(buf, "pubDate", item.PublishedAt.Format(time.RFC1123Z), 6)

	if item.Author != "" {
		g.writeElement(buf, "author", item.Author, 6)
	}

	if item.Category != feed.CategoryUndetermined {
		g.writeElement(buf, "category", item.Category, 6)
	}
	if item.Topic != "" {
		g.writeElement(buf, "category", item.Topic, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// A literal "]]>" inside item content would terminate the CDATA section
// early. Splitting it across two CDATA sections keeps the decoded text
// byte-identical to the input.
func sanitizeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}

// WriteFeed writes a rendered RSS document to disk.
func WriteFeed(path string, rss string) error {
	if err := writeFileAtomic(path, []byte(rss)); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	return nil
}
