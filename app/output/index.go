package output

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// IndexEntry is one group shown on the index page.
type IndexEntry struct {
	Name      string
	Title     string
	ItemCount int
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>RSS Curator</title>
  <style>
    body { font-family: sans-serif; margin: 2em; color: #222; }
    li { margin: 0.4em 0; }
  </style>
</head>
<body>
  <h1>RSS Curator</h1>
  <p>Generated {{.GeneratedAt}}</p>
  <ul>
    {{range .Groups}}<li>
      <strong>{{.Title}}</strong> ({{.ItemCount}} items):
      <a href="{{.Name}}.xml">feed</a> &middot;
      <a href="{{.Name}}.html">report</a> &middot;
      <a href="{{.Name}}.json">snapshot</a>
    </li>
    {{end}}
  </ul>
</body>
</html>
`))

// WriteIndex renders the index page linking every group's artifacts.
func WriteIndex(path string, groups []IndexEntry, now time.Time) error {
	data := struct {
		GeneratedAt string
		Groups      []IndexEntry
	}{now.Format("2006-01-02 15:04 MST"), groups}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	return nil
}
