package cfg

import "time"

type HistoryBackend string

const (
	HistoryBackendJSON   HistoryBackend = "json"
	HistoryBackendSQLite HistoryBackend = "sqlite"
)

type Cfg struct {
	// Plex configuration
	PlexURL        string
	PlexToken      string
	Libraries      []string
	LibrariesFile  string
	RequestTimeout time.Duration

	// Export configuration
	ExportDir      string
	HistoryBackend HistoryBackend
	DryRun         bool

	// Scheduling configuration
	ScheduleTime string
	Cron         string
	Location     *time.Location
	PollInterval time.Duration
	RunOnce      bool

	// Application configuration
	Port    string
	Debug   bool
	Version string
}

// UsesCron reports whether the cron trigger replaces the fixed daily time.
func (c *Cfg) UsesCron() bool {
	return c.Cron != ""
}
