package config

import (
	"time"
)

// Group describes one combined output feed and the sources it merges.
type Group struct {
	Name        string        // Derived from filename (without .yml extension)
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Settings    GroupSettings `yaml:"settings"`
	Feeds       []string      `yaml:"feeds"`
}

type GroupSettings struct {
	Enabled        bool `yaml:"enabled"`
	WindowHours    int  `yaml:"window_hours"` // 0 disables the trailing window
	Timeout        int  `yaml:"timeout"`      // seconds, per source fetch
	MaxItems       int  `yaml:"max_items"`    // cap on items in rendered documents
	ExtractContent bool `yaml:"extract_content"`
}

func (s *GroupSettings) GetWindow() time.Duration {
	if s.WindowHours <= 0 {
		return 0
	}
	return time.Duration(s.WindowHours) * time.Hour
}

func (s *GroupSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

// Taxonomy is the fixed classification vocabulary shared by all groups.
// The pipeline cannot run without it.
type Taxonomy struct {
	Topics      []string `yaml:"topics"`
	Categories  []string `yaml:"categories"`
	IgnoreRules []string `yaml:"ignore_rules"`
	SocialHosts []string `yaml:"social_hosts"`
}
