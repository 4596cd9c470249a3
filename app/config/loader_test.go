package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeGroupFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadValidGroup(t *testing.T) {
	tempDir := t.TempDir()

	content := `
title: "Curated"
description: "Curated articles"

settings:
  enabled: true
  window_hours: 48
  timeout: 15
  max_items: 25
  extract_content: true

feeds:
  - "https://example.com/feed.xml"
  - "https://example.org/rss"
`
	writeGroupFile(t, tempDir, "curated.yml", content)

	cache := NewConfigCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	group, err := cache.GetGroup("curated")
	if err != nil {
		t.Fatal(err)
	}

	if group.Name != "curated" {
		t.Errorf("Expected name 'curated', got '%s'", group.Name)
	}
	if group.Title != "Curated" {
		t.Errorf("Expected title 'Curated', got '%s'", group.Title)
	}
	if group.Settings.WindowHours != 48 {
		t.Errorf("Expected window 48h, got %d", group.Settings.WindowHours)
	}
	if group.Settings.GetTimeout() != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", group.Settings.GetTimeout())
	}
	if !group.Settings.ExtractContent {
		t.Error("Expected extract_content to be enabled")
	}
	if len(group.Feeds) != 2 {
		t.Errorf("Expected 2 feeds, got %d", len(group.Feeds))
	}
}

func TestLoadGroupWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
title: "Minimal"
settings:
  enabled: true
feeds:
  - "https://example.com/feed.xml"
`
	writeGroupFile(t, tempDir, "minimal.yml", content)

	cache := NewConfigCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	group, err := cache.GetGroup("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if group.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", group.Settings.Timeout)
	}
	if group.Settings.MaxItems != 100 {
		t.Errorf("Expected default max items 100, got %d", group.Settings.MaxItems)
	}
	if group.Settings.GetWindow() != 0 {
		t.Errorf("Expected disabled window, got %v", group.Settings.GetWindow())
	}
}

func TestLoadInvalidGroup(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing title", "settings:\n  enabled: true\nfeeds:\n  - \"https://example.com/feed.xml\"\n"},
		{"no feeds", "title: \"No Feeds\"\nsettings:\n  enabled: true\n"},
		{"negative window", "title: \"Bad\"\nsettings:\n  window_hours: -1\nfeeds:\n  - \"https://example.com/feed.xml\"\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tempDir := t.TempDir()
			writeGroupFile(t, tempDir, "bad.yml", tc.content)

			cache := NewConfigCache(tempDir)
			if err := cache.Run(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestGetEnabledGroups(t *testing.T) {
	tempDir := t.TempDir()

	writeGroupFile(t, tempDir, "on.yml", "title: \"On\"\nsettings:\n  enabled: true\nfeeds:\n  - \"https://example.com/a\"\n")
	writeGroupFile(t, tempDir, "off.yml", "title: \"Off\"\nsettings:\n  enabled: false\nfeeds:\n  - \"https://example.com/b\"\n")

	cache := NewConfigCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	if cache.GetGroupCount() != 2 {
		t.Errorf("Expected 2 loaded groups, got %d", cache.GetGroupCount())
	}

	enabled := cache.GetEnabledGroups()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled group, got %d", len(enabled))
	}
	if _, ok := enabled["on"]; !ok {
		t.Error("Expected group 'on' to be enabled")
	}
}

func TestMissingGroupsDir(t *testing.T) {
	cache := NewConfigCache(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := cache.Run(); err != nil {
		t.Errorf("Missing groups directory should not be an error, got %v", err)
	}
	if cache.GetGroupCount() != 0 {
		t.Errorf("Expected 0 groups, got %d", cache.GetGroupCount())
	}
}

func TestLoadTaxonomy(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "taxonomy.yml")

	content := `
topics:
  - "Mapping"
  - "Imagery"
categories:
  - "Video"
  - "Blog"
ignore_rules:
  - "press releases"
social_hosts:
  - "twitter.com"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	taxonomy, err := LoadTaxonomy(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(taxonomy.Topics) != 2 || len(taxonomy.Categories) != 2 {
		t.Errorf("Unexpected taxonomy: %+v", taxonomy)
	}
	if len(taxonomy.SocialHosts) != 1 || taxonomy.SocialHosts[0] != "twitter.com" {
		t.Errorf("Unexpected social hosts: %v", taxonomy.SocialHosts)
	}
}

func TestLoadTaxonomyRequiresVocabulary(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "taxonomy.yml")

	if err := os.WriteFile(path, []byte("topics: []\ncategories: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadTaxonomy(path); err == nil {
		t.Error("Expected error for empty vocabulary, got nil")
	}
}
