package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogarral/rss-curator/app/config"
	"github.com/ogarral/rss-curator/app/database"
)

func NewHandler(configCache *config.ConfigCache, stateRepo database.StateRepository, outputDir string) *Handler {
	return &Handler{
		configCache: configCache,
		stateRepo:   stateRepo,
		outputDir:   outputDir,
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetGroup(name); err != nil {
		slog.Error("Group configuration not found", "group", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	path := filepath.Join(h.outputDir, name+".xml")
	if _, err := os.Stat(path); err != nil {
		slog.Error("Feed artifact not found", "group", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	total, _, excluded, err := h.stateRepo.GetStateStats(name)
	if err == nil {
		c.Header("X-Feed-Items", strconv.Itoa(total-excluded))
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.File(path)
}

func (h *Handler) GetReport(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetGroup(name); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	path := filepath.Join(h.outputDir, name+".html")
	if _, err := os.Stat(path); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.File(path)
}

func (h *Handler) GetIndex(c *gin.Context) {
	path := filepath.Join(h.outputDir, "index.html")
	if _, err := os.Stat(path); err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(path)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if groupCount, err := h.stateRepo.GetGroupCount(); err == nil {
		health["groups"] = groupCount
	}

	health["loaded_configurations"] = h.configCache.GetGroupCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	groups := make([]map[string]interface{}, 0)

	for name := range h.configCache.GetGroups() {
		total, enriched, excluded, err := h.stateRepo.GetStateStats(name)
		if err != nil {
			slog.Error("Database error", "operation", "get_stats", "group", name, "error", err)
			continue
		}
		groups = append(groups, map[string]interface{}{
			"name":     name,
			"items":    total,
			"enriched": enriched,
			"excluded": excluded,
		})
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *Handler) APIListGroups(c *gin.Context) {
	configs := h.configCache.GetGroups()

	groups := make([]map[string]interface{}, 0, len(configs))
	for _, group := range configs {
		info := map[string]interface{}{
			"name":         group.Name,
			"title":        group.Title,
			"enabled":      group.Settings.Enabled,
			"window_hours": group.Settings.WindowHours,
			"max_items":    group.Settings.MaxItems,
			"sources":      len(group.Feeds),
		}

		if total, enriched, excluded, err := h.stateRepo.GetStateStats(group.Name); err == nil {
			info["item_count"] = total
			info["enriched_count"] = enriched
			info["excluded_count"] = excluded
		}

		groups = append(groups, info)
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}
