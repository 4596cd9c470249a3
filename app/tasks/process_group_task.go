package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/ogarral/rss-curator/app/config"
	"github.com/ogarral/rss-curator/app/database"
	"github.com/ogarral/rss-curator/app/enrich"
	"github.com/ogarral/rss-curator/app/feed"
	"github.com/ogarral/rss-curator/app/output"
)

// ProcessGroupTask runs the full pipeline for one group: fetch and parse
// every source, admit new items through the dedup ledger, apply the time
// window, enrich, reconcile with persisted state, save, and render the
// group's artifacts.
type ProcessGroupTask struct {
	Task
	Group      *config.Group
	httpClient *http.Client
	parser     *feed.Parser
	social     *feed.SocialFilter
	engine     *enrich.Engine
	stateRepo  database.StateRepository
	generator  *output.Generator
	outputDir  string
	userAgent  string
	now        func() time.Time
}

func NewProcessGroupTask(group *config.Group, httpClient *http.Client, parser *feed.Parser,
	social *feed.SocialFilter, engine *enrich.Engine, stateRepo database.StateRepository,
	outputDir string, userAgent string) *ProcessGroupTask {
	return &ProcessGroupTask{
		Task:       NewTask(TaskTypeProcessGroup, group.Name),
		Group:      group,
		httpClient: httpClient,
		parser:     parser,
		social:     social,
		engine:     engine,
		stateRepo:  stateRepo,
		generator:  output.NewGenerator(),
		outputDir:  outputDir,
		userAgent:  userAgent,
		now:        time.Now,
	}
}

func (t *ProcessGroupTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Group.Settings.Enabled {
		slog.Debug("Group disabled, skipping", "group", t.GroupName)
		return nil
	}

	t.Start()
	runTime := t.now().UTC()

	state, err := t.stateRepo.LoadState(t.GroupName)
	if err != nil {
		// Unreadable state degrades to a fresh start for this group.
		slog.Error("State load failed, starting from empty state", "group", t.GroupName, "error", err)
		state = &feed.State{}
	}

	ledger := feed.NewLedger(t.social, state.Items, t.now)

	var admitted []feed.Item
	for _, sourceURL := range t.Group.Feeds {
		items, err := t.collectSource(ctx, sourceURL)
		if err != nil {
			slog.Error("Source failed, skipping", "group", t.GroupName, "source", sourceURL, "error", err)
			continue
		}

		for _, item := range items {
			if ok, _ := ledger.Admit(item); ok {
				admitted = append(admitted, item)
			}
		}
	}

	windowed := feed.FilterByWindow(admitted, t.Group.Settings.GetWindow(), runTime)

	merged := feed.Reconcile(state.Items, windowed)

	merged, err = t.engine.Run(ctx, merged, t.Group.Settings.ExtractContent)
	if err != nil {
		// Aborted run: the previously persisted state stays
		// authoritative, nothing is saved or rendered.
		return fmt.Errorf("run aborted: %w", err)
	}

	state.Title = t.Group.Title
	state.Description = t.Group.Description
	state.LastUpdated = runTime
	state.Items = merged

	saveErr := t.stateRepo.SaveState(t.GroupName, state)
	if saveErr != nil {
		slog.Error("State save failed, rendering artifacts anyway", "group", t.GroupName, "error", saveErr)
	}

	if err := t.renderArtifacts(state, ledger.Ignored(), runTime); err != nil {
		return err
	}

	slog.Info("Group processed",
		"group", t.GroupName,
		"sources", len(t.Group.Feeds),
		"admitted", len(admitted),
		"windowed", len(windowed),
		"total", len(state.Items),
		"ignored", len(ledger.Ignored()),
		"duration", t.GetDuration().Round(time.Millisecond))

	if saveErr != nil {
		return fmt.Errorf("failed to save state: %w", saveErr)
	}

	return nil
}

func (t *ProcessGroupTask) collectSource(ctx context.Context, sourceURL string) ([]feed.Item, error) {
	data, err := t.fetchSource(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}

	items, err := t.parser.Run(data, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	return items, nil
}

func (t *ProcessGroupTask) fetchSource(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.Group.Settings.GetTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (t *ProcessGroupTask) renderArtifacts(state *feed.State, ignored []feed.IgnoredItem, runTime time.Time) error {
	renderState := *state
	if max := t.Group.Settings.MaxItems; max > 0 && len(renderState.Items) > max {
		renderState.Items = renderState.Items[:max]
	}

	rss := t.generator.Run(t.GroupName, &renderState, runTime)
	if err := output.WriteFeed(filepath.Join(t.outputDir, t.GroupName+".xml"), rss); err != nil {
		return err
	}

	if err := output.WriteSnapshot(filepath.Join(t.outputDir, t.GroupName+".json"), state); err != nil {
		return err
	}

	if err := output.WriteReport(filepath.Join(t.outputDir, t.GroupName+".html"), &renderState); err != nil {
		return err
	}

	if err := output.AppendAudit(filepath.Join(t.outputDir, t.GroupName+"_ignored.csv"), ignored); err != nil {
		return err
	}

	return nil
}
