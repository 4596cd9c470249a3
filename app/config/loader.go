package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type ConfigCache struct {
	groupsDir string
	cache     map[string]*Group
	mu        sync.RWMutex
}

func NewConfigCache(groupsDir string) *ConfigCache {
	return &ConfigCache{
		groupsDir: groupsDir,
		cache:     make(map[string]*Group),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.groupsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.groupsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive group name from filename (remove .yml extension)
		groupName := strings.TrimSuffix(filepath.Base(file), ".yml")

		group, err := cc.LoadGroup(groupName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Group configuration loaded", "group", groupName, "enabled", group.Settings.Enabled, "feeds", len(group.Feeds))
	}

	return nil
}

func (cc *ConfigCache) LoadGroup(groupName string) (*Group, error) {
	configFile := cc.getConfigFilePath(groupName)
	group, err := cc.parseGroup(configFile)
	if err != nil {
		return nil, err
	}

	group.Name = groupName

	if err := cc.validateGroup(group); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[group.Name] = group

	return group, nil
}

func (cc *ConfigCache) GetGroup(groupName string) (*Group, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	group, ok := cc.cache[groupName]
	if !ok {
		return nil, fmt.Errorf("group config with name '%s' not found", groupName)
	}
	return group, nil
}

func (cc *ConfigCache) GetGroups() map[string]*Group {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	groupsCopy := make(map[string]*Group, len(cc.cache))
	for k, v := range cc.cache {
		groupsCopy[k] = v
	}
	return groupsCopy
}

func (cc *ConfigCache) GetEnabledGroups() map[string]*Group {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabled := make(map[string]*Group)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (cc *ConfigCache) GetGroupCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseGroup(configFile string) (*Group, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var group Group
	if err := yaml.Unmarshal(data, &group); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if group.Settings.Timeout == 0 {
		group.Settings.Timeout = 30
	}
	if group.Settings.MaxItems == 0 {
		group.Settings.MaxItems = 100
	}

	return &group, nil
}

func (cc *ConfigCache) validateGroup(group *Group) error {
	if group == nil {
		return fmt.Errorf("group is nil")
	}

	if group.Name == "" {
		return fmt.Errorf("group name is required")
	}
	if group.Title == "" {
		return fmt.Errorf("group title is required")
	}
	if len(group.Feeds) == 0 {
		return fmt.Errorf("group must list at least one feed URL")
	}

	for i, url := range group.Feeds {
		if url == "" {
			return fmt.Errorf("feed URL at index %d is empty", i)
		}
	}

	nonNegativeFields := map[string]int{
		"window hours": group.Settings.WindowHours,
		"timeout":      group.Settings.Timeout,
		"max items":    group.Settings.MaxItems,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(groupName string) string {
	return filepath.Join(cc.groupsDir, groupName+".yml")
}
