package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/ogarral/rss-curator/app/api"
	"github.com/ogarral/rss-curator/app/cfg"
	"github.com/ogarral/rss-curator/app/config"
	"github.com/ogarral/rss-curator/app/database"
	"github.com/ogarral/rss-curator/app/enrich"
	"github.com/ogarral/rss-curator/app/feed"
	"github.com/ogarral/rss-curator/app/output"
	"github.com/ogarral/rss-curator/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Configuration error", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting RSS Curator", "version", appCfg.Version)

	taxonomy, err := config.LoadTaxonomy(appCfg.TaxonomyPath)
	if err != nil {
		slog.Error("Failed to load taxonomy", "path", appCfg.TaxonomyPath, "error", err)
		os.Exit(1)
	}

	configCache := config.NewConfigCache(appCfg.GroupsDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load group configurations", "dir", appCfg.GroupsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Group configurations loaded", "count", configCache.GetGroupCount())

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open state database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("State database ready", "schema_version", version, "dirty", dirty)

	stateRepo := database.NewStateRepository(db)

	httpClient := &http.Client{}
	parser := feed.NewParser()
	social := feed.NewSocialFilter(taxonomy.SocialHosts)

	var classifier enrich.Classifier
	if appCfg.OpenAIAPIKey != "" {
		classifier = enrich.NewOpenAIClassifier(appCfg.OpenAIAPIKey, appCfg.OpenAIModel)
	} else {
		slog.Warn("OPENAI_API_KEY not set, classification disabled")
	}
	extractor := enrich.NewContentExtractor(httpClient, appCfg.UserAgent)

	failed := runPipeline(configCache, taxonomy, classifier, extractor, stateRepo, httpClient, parser, social, appCfg)

	if appCfg.Serve {
		serveArtifacts(configCache, stateRepo, appCfg)
	}

	if failed {
		os.Exit(1)
	}
}

// runPipeline processes every enabled group sequentially and writes the
// index page. It reports whether any group failed to persist its state.
func runPipeline(configCache *config.ConfigCache, taxonomy *config.Taxonomy,
	classifier enrich.Classifier, extractor *enrich.ContentExtractor,
	stateRepo database.StateRepository, httpClient *http.Client,
	parser *feed.Parser, social *feed.SocialFilter, appCfg *cfg.Cfg) bool {

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	groups := configCache.GetEnabledGroups()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	engine := enrich.NewEngine(classifier, extractor, taxonomy, enrich.NewRetryPolicy(3, 2*time.Second))

	failed := false
	for _, name := range names {
		group := groups[name]

		task := tasks.NewProcessGroupTask(group, httpClient, parser, social,
			engine, stateRepo, appCfg.OutputDir, appCfg.UserAgent)

		if err := task.Execute(ctx); err != nil {
			slog.Error("Group processing failed", "group", name, "error", err)
			failed = true
		}
	}

	entries := make([]output.IndexEntry, 0, len(names))
	for _, name := range names {
		total, _, excluded, err := stateRepo.GetStateStats(name)
		if err != nil {
			slog.Error("Failed to read group stats", "group", name, "error", err)
			continue
		}
		entries = append(entries, output.IndexEntry{
			Name:      name,
			Title:     groups[name].Title,
			ItemCount: total - excluded,
		})
	}
	if err := output.WriteIndex(filepath.Join(appCfg.OutputDir, "index.html"), entries, time.Now()); err != nil {
		slog.Error("Failed to write index page", "error", err)
		failed = true
	}

	return failed
}

func serveArtifacts(configCache *config.ConfigCache, stateRepo database.StateRepository, appCfg *cfg.Cfg) {
	handler := api.NewHandler(configCache, stateRepo, appCfg.OutputDir)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
