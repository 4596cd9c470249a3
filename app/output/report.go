package output

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/ogarral/rss-curator/app/feed"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: sans-serif; margin: 2em; color: #222; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #ccc; padding: 0.4em 0.6em; text-align: left; vertical-align: top; }
    th { background: #f4f4f4; }
    .summary { color: #555; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p>{{.Description}}</p>
  <p>Last updated: {{fmtTime .LastUpdated}} &middot; {{len .Items}} items</p>
  <table>
    <tr><th>Published</th><th>Title</th><th>Category</th><th>Topic</th><th>Summary</th></tr>
    {{range .Items}}<tr>
      <td>{{fmtTime .PublishedAt}}</td>
      <td><a href="{{.Link}}">{{.Title}}</a></td>
      <td>{{.Category}}</td>
      <td>{{.Topic}}</td>
      <td class="summary">{{.Summary}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>
`))

// WriteReport renders the group's visible items as an HTML table.
func WriteReport(path string, state *feed.State) error {
	visible := state.Items[:0:0]
	for _, item := range state.Items {
		if !item.Excluded {
			visible = append(visible, item)
		}
	}

	data := struct {
		Title       string
		Description string
		LastUpdated time.Time
		Items       []feed.Item
	}{state.Title, state.Description, state.LastUpdated, visible}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
