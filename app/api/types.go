package api

import (
	"time"

	"github.com/lysyi3m/plex-letterboxd/app/scheduler"
)

// StatusProvider exposes the scheduler state to the handlers.
type StatusProvider interface {
	Status() scheduler.Status
}

var _ StatusProvider = (*scheduler.Scheduler)(nil)

type Handler struct {
	status  StatusProvider
	version string
	now     func() time.Time
}

type libraryResponse struct {
	Library string `json:"library"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

type runResponse struct {
	RunID       string            `json:"run_id"`
	StartedAt   string            `json:"started_at"`
	Duration    string            `json:"duration"`
	Added       int               `json:"added"`
	HistorySize int               `json:"history_size"`
	DryRun      bool              `json:"dry_run"`
	Libraries   []libraryResponse `json:"libraries"`
}

type statusResponse struct {
	Version     string       `json:"version"`
	Trigger     string       `json:"trigger"`
	NextRun     *string      `json:"next_run"`
	NextError   string       `json:"next_run_error,omitempty"`
	LastRun     *runResponse `json:"last_run"`
	LastError   string       `json:"last_error,omitempty"`
	Runs        int          `json:"runs"`
	HistorySize int          `json:"history_size"`
}
