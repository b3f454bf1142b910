package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

// ErrMissingCredentials is returned when the Plex URL or token is not configured.
var ErrMissingCredentials = errors.New("PLEX_URL and PLEX_TOKEN must be set")

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Plex configuration
	PlexURL        string `long:"plex-url" env:"PLEX_URL" description:"Base URL of the Plex server (required)"`
	PlexToken      string `long:"plex-token" env:"PLEX_TOKEN" description:"Plex access token (required)"`
	Libraries      string `long:"libraries" env:"PLEX_LIBRARIES" default:"Movies" description:"Comma-separated list of Plex libraries to export"`
	LibrariesFile  string `long:"libraries-file" env:"LIBRARIES_FILE" description:"YAML file listing libraries (overrides --libraries)"`
	RequestTimeout int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"Plex request timeout in seconds"`

	// Export configuration
	ExportDir      string `long:"export-dir" env:"EXPORT_DIR" default:"/output" description:"Directory for the CSV export, history and log files"`
	HistoryBackend string `long:"history-backend" env:"HISTORY_BACKEND" default:"json" choice:"json" choice:"sqlite" description:"Storage used for the export history"`
	DryRun         bool   `long:"dry-run" env:"DRY_RUN" description:"Log new rows without writing history or CSV"`

	// Scheduling configuration
	ScheduleTime string `long:"schedule-time" env:"SCHEDULE_TIME" default:"03:00" description:"Daily run time (HH:MM)"`
	Cron         string `long:"cron" env:"CRON_SCHEDULE" description:"Cron expression (5 fields); replaces --schedule-time when set"`
	Timezone     string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for schedules and watched dates (e.g., UTC, Europe/Berlin)"`
	PollInterval int    `long:"poll-interval" env:"POLL_INTERVAL" default:"60" description:"Scheduler poll interval in seconds"`
	RunOnce      bool   `long:"once" env:"RUN_ONCE" description:"Run a single export and exit"`

	// Application configuration
	Port  string `long:"port" env:"PORT" description:"Port for the status API (disabled when empty)"`
	Debug bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses the process arguments and environment.
// A nil config with a nil error means help was shown.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	loc, err := loadLocation(raw.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", raw.Timezone, err)
	}

	cfg := &Cfg{
		PlexURL:        strings.TrimRight(strings.TrimSpace(raw.PlexURL), "/"),
		PlexToken:      strings.TrimSpace(raw.PlexToken),
		Libraries:      SplitLibraries(raw.Libraries),
		LibrariesFile:  strings.TrimSpace(raw.LibrariesFile),
		RequestTimeout: time.Duration(raw.RequestTimeout) * time.Second,
		ExportDir:      raw.ExportDir,
		HistoryBackend: HistoryBackend(raw.HistoryBackend),
		DryRun:         raw.DryRun,
		ScheduleTime:   strings.TrimSpace(raw.ScheduleTime),
		Cron:           strings.TrimSpace(raw.Cron),
		Location:       loc,
		PollInterval:   time.Duration(raw.PollInterval) * time.Second,
		RunOnce:        raw.RunOnce,
		Port:           strings.TrimSpace(raw.Port),
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	if c.PlexURL == "" || c.PlexToken == "" {
		return ErrMissingCredentials
	}
	if c.ExportDir == "" {
		return fmt.Errorf("export directory is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if len(c.Libraries) == 0 && c.LibrariesFile == "" {
		return fmt.Errorf("at least one library is required")
	}
	return nil
}

// SplitLibraries splits a comma-separated library list, trimming names and
// dropping empty entries while keeping the configured order.
func SplitLibraries(value string) []string {
	parts := strings.Split(value, ",")
	libraries := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			libraries = append(libraries, name)
		}
	}
	return libraries
}

func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(timezone)
}
