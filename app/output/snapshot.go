package output

import (
	"encoding/json"
	"fmt"

	"github.com/ogarral/rss-curator/app/feed"
)

// WriteSnapshot writes the group's full state as an indented JSON document.
func WriteSnapshot(path string, state *feed.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}
