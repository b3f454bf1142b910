package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/plex-letterboxd/app/scheduler"
)

func NewHandler(status StatusProvider, version string) *Handler {
	return &Handler{
		status:  status,
		version: version,
		now:     time.Now,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().Format(time.RFC3339),
	})
}

func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, newStatusResponse(h.status.Status(), h.version))
}

func newStatusResponse(status scheduler.Status, version string) statusResponse {
	resp := statusResponse{
		Version:   version,
		Trigger:   status.Trigger,
		NextError: status.NextError,
		LastError: status.LastError,
		Runs:      status.Runs,
	}

	if status.NextRun != nil {
		next := status.NextRun.Format(time.RFC3339)
		resp.NextRun = &next
	}

	if run := status.LastRun; run != nil {
		last := runResponse{
			RunID:       run.RunID,
			StartedAt:   run.StartedAt.Format(time.RFC3339),
			Duration:    run.Duration.String(),
			Added:       run.Added,
			HistorySize: run.HistorySize,
			DryRun:      run.DryRun,
			Libraries:   make([]libraryResponse, 0, len(run.Libraries)),
		}
		for _, lib := range run.Libraries {
			item := libraryResponse{Library: lib.Library, Added: lib.Added, Skipped: lib.Skipped}
			if lib.Err != nil {
				item.Error = lib.Err.Error()
			}
			last.Libraries = append(last.Libraries, item)
		}
		resp.LastRun = &last
		resp.HistorySize = run.HistorySize
	}

	return resp
}
