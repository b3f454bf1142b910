package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/plex-letterboxd/app/export"
)

// Job performs one export run.
type Job func(ctx context.Context) (export.RunSummary, error)

// Status is a point-in-time copy of the task state.
type Status struct {
	Trigger   string
	NextRun   *time.Time
	NextError string
	LastRun   *export.RunSummary
	LastError string
	Runs      int
}

// Task couples a trigger with the export job and remembers the outcome of the
// last run. It never sleeps; the caller decides when to ask RunDue.
type Task struct {
	trigger Trigger
	job     Job
	now     func() time.Time

	mu      sync.RWMutex
	next    time.Time
	nextErr error
	lastRun *export.RunSummary
	lastErr error
	runs    int
}

func NewTask(trigger Trigger, job Job) *Task {
	return &Task{trigger: trigger, job: job, now: time.Now}
}

// NextFireTime reports the computed next fire time. The boolean is false when
// nothing is scheduled yet or the trigger failed to compute one.
func (t *Task) NextFireTime() (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.next, !t.next.IsZero()
}

// Reschedule recomputes the next fire time strictly after the given instant.
func (t *Task) Reschedule(after time.Time) {
	next, err := t.trigger.Next(after)

	t.mu.Lock()
	t.next, t.nextErr = next, err
	t.mu.Unlock()

	if err != nil {
		slog.Error("Failed to compute next run", "trigger", t.trigger.String(), "error", err)
	}
}

// RunNow executes the job regardless of the trigger and schedules the next
// fire time after completion.
func (t *Task) RunNow(ctx context.Context) {
	t.execute(ctx)
	t.Reschedule(t.now())
}

// RunDue executes the job when the next fire time is at or before now and
// reports whether it ran. A task without a fire time retries the computation.
func (t *Task) RunDue(ctx context.Context, now time.Time) bool {
	next, ok := t.NextFireTime()
	if !ok {
		t.Reschedule(now)
		return false
	}
	if now.Before(next) {
		return false
	}

	t.execute(ctx)
	after := t.now()
	if after.Before(now) {
		after = now
	}
	t.Reschedule(after)
	return true
}

func (t *Task) execute(ctx context.Context) {
	summary, err := t.job(ctx)

	t.mu.Lock()
	t.runs++
	t.lastRun = &summary
	t.lastErr = err
	t.mu.Unlock()

	if err != nil {
		slog.Error("Export failed", "run_id", summary.RunID, "error", err)
		return
	}

	slog.Info("Export completed",
		"run_id", summary.RunID,
		"added", summary.Added,
		"history", summary.HistorySize,
		"failed_libraries", len(summary.Errors()),
		"duration", summary.Duration.String())
}

func (t *Task) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	status := Status{Trigger: t.trigger.String(), Runs: t.runs}
	if !t.next.IsZero() {
		next := t.next
		status.NextRun = &next
	}
	if t.nextErr != nil {
		status.NextError = t.nextErr.Error()
	}
	if t.lastRun != nil {
		last := *t.lastRun
		status.LastRun = &last
	}
	if t.lastErr != nil {
		status.LastError = t.lastErr.Error()
	}
	return status
}
