package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/plex-letterboxd/app/history"
)

type Pipeline struct {
	catalog    Catalog
	store      history.Store
	sink       Appender
	normalizer *Normalizer
	dryRun     bool
	now        func() time.Time
}

func NewPipeline(catalog Catalog, store history.Store, sink Appender, normalizer *Normalizer, dryRun bool) *Pipeline {
	return &Pipeline{
		catalog:    catalog,
		store:      store,
		sink:       sink,
		normalizer: normalizer,
		dryRun:     dryRun,
		now:        time.Now,
	}
}

// Run exports new watched items from the given libraries. A failing library
// is recorded in the summary and does not stop the others; an error is
// returned only when history or the CSV could not be read or written.
func (p *Pipeline) Run(ctx context.Context, libraries []string) (summary RunSummary, err error) {
	summary = RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
		DryRun:    p.dryRun,
	}
	defer func() {
		summary.Duration = p.now().Sub(summary.StartedAt)
	}()

	slog.Info("Export started", "run_id", summary.RunID, "libraries", len(libraries), "dry_run", p.dryRun)

	known, err := p.store.Load(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to load history: %w", err)
	}

	working := known.Clone()
	var rows []Row

	for _, name := range libraries {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		result, libraryRows := p.exportLibrary(ctx, name, working)
		rows = append(rows, libraryRows...)
		summary.Libraries = append(summary.Libraries, result)
	}

	summary.Added = len(rows)
	summary.HistorySize = working.Len()

	if p.dryRun {
		slog.Info("Dry run completed", "run_id", summary.RunID, "new", len(rows))
		return summary, nil
	}

	if err := p.store.Persist(ctx, working); err != nil {
		summary.Added = 0
		summary.HistorySize = known.Len()
		return summary, fmt.Errorf("failed to persist history: %w", err)
	}

	if len(rows) == 0 {
		slog.Info("No new movies to export", "run_id", summary.RunID)
		return summary, nil
	}

	if err := p.sink.Append(rows); err != nil {
		return summary, fmt.Errorf("failed to append rows: %w", err)
	}

	slog.Info("New movies added to CSV", "run_id", summary.RunID, "count", len(rows), "history", summary.HistorySize)
	return summary, nil
}

func (p *Pipeline) exportLibrary(ctx context.Context, name string, working *history.Set) (LibraryResult, []Row) {
	result := LibraryResult{Library: name}

	section, err := p.catalog.Section(ctx, name)
	if err != nil {
		result.Err = err
		slog.Error("Failed to process library", "library", name, "error", err)
		return result, nil
	}

	items, err := p.catalog.AllItems(ctx, section)
	if err != nil {
		result.Err = err
		slog.Error("Failed to process library", "library", name, "error", err)
		return result, nil
	}

	slog.Info("Processing library", "library", name, "items", len(items))

	var rows []Row
	for _, item := range items {
		if !item.Watched() {
			continue
		}

		key := p.normalizer.Key(item)
		if working.Contains(key) {
			result.Skipped++
			continue
		}

		row := p.normalizer.Normalize(item)
		rows = append(rows, row)
		working.Add(key)
		result.Added++

		slog.Info("Added",
			"title", row.Title,
			"year", row.Year,
			"watched", row.WatchedDate,
			"view_count", item.ViewCount,
			"rating", row.Rating,
			"library", name)
	}

	return result, rows
}
