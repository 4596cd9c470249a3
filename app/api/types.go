package api

import (
	"github.com/ogarral/rss-curator/app/config"
	"github.com/ogarral/rss-curator/app/database"
)

// Handler serves generated artifacts and pipeline status.
type Handler struct {
	configCache *config.ConfigCache
	stateRepo   database.StateRepository
	outputDir   string
}
