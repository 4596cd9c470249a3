package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Pipeline configuration
	GroupsDir    string `long:"groups-dir" env:"GROUPS_DIR" default:"./feeds" description:"Directory containing feed group configuration files"`
	TaxonomyPath string `long:"taxonomy" env:"TAXONOMY_PATH" default:"./taxonomy.yml" description:"Path to the classification taxonomy file"`
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./data/curator.db" description:"Path to the SQLite state database"`
	OutputDir    string `long:"output-dir" env:"OUTPUT_DIR" default:"./output" description:"Directory for generated feed documents and reports"`

	// Classification configuration
	OpenAIAPIKey string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key used for item classification"`
	OpenAIModel  string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"OpenAI model used for item classification"`

	// Serve mode configuration
	Serve        bool   `long:"serve" env:"SERVE" description:"Keep running after the pipeline and serve generated artifacts over HTTP"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve mode)"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for served feeds (e.g., https://feeds.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authenticated endpoints (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RSS Curator/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		GroupsDir:    raw.GroupsDir,
		TaxonomyPath: raw.TaxonomyPath,
		DBPath:       raw.DBPath,
		OutputDir:    raw.OutputDir,
		OpenAIAPIKey: raw.OpenAIAPIKey,
		OpenAIModel:  raw.OpenAIModel,
		Serve:        raw.Serve,
		Port:         raw.Port,
		BaseUrl:      raw.BaseUrl,
		APIAccessKey: raw.APIAccessKey,
		UserAgent:    raw.UserAgent,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
