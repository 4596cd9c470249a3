package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ogarral/rss-curator/app/feed"
)

var auditHeader = []string{"url", "reason", "title", "discovered_at"}

// AppendAudit appends the run's ignored-item records to the group's CSV
// audit log, writing the header only when the file is first created.
func AppendAudit(path string, records []feed.IgnoredItem) error {
	if len(records) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if isNew {
		if err := w.Write(auditHeader); err != nil {
			return fmt.Errorf("failed to write audit header: %w", err)
		}
	}

	for _, record := range records {
		row := []string{
			record.URL,
			record.Reason,
			record.Title,
			record.DiscoveredAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush audit log: %w", err)
	}

	return nil
}
