package export

import (
	"context"
	"time"

	"github.com/lysyi3m/plex-letterboxd/app/plex"
)

// Catalog is the media-server surface the pipeline reads from.
type Catalog interface {
	Section(ctx context.Context, name string) (plex.Section, error)
	AllItems(ctx context.Context, section plex.Section) ([]plex.Item, error)
}

var _ Catalog = (*plex.Client)(nil)

// LibraryResult is the outcome of exporting one library.
type LibraryResult struct {
	Library string
	Added   int
	Skipped int
	Err     error
}

func (r LibraryResult) Failed() bool {
	return r.Err != nil
}

type RunSummary struct {
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	Added       int
	HistorySize int
	DryRun      bool
	Libraries   []LibraryResult
}

// Errors returns the failed library results in processing order.
func (s RunSummary) Errors() []LibraryResult {
	var failed []LibraryResult
	for _, r := range s.Libraries {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}
