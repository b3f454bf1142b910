package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger computes when the export should next run.
type Trigger interface {
	// Next returns the first fire time strictly after the given instant.
	Next(after time.Time) (time.Time, error)
	String() string
}

var (
	_ Trigger = (*DailyTrigger)(nil)
	_ Trigger = (*CronTrigger)(nil)
)

var ErrNoFireTime = errors.New("schedule has no upcoming fire time")

// NewTrigger returns a cron trigger when expr is set and a daily trigger at
// clock otherwise. Only a malformed daily time is rejected here; a bad cron
// expression surfaces from Next so the loop can keep reporting it.
func NewTrigger(clock, expr string, loc *time.Location) (Trigger, error) {
	if strings.TrimSpace(expr) != "" {
		return NewCronTrigger(expr, loc), nil
	}
	return NewDailyTrigger(clock, loc)
}

type DailyTrigger struct {
	hour     int
	minute   int
	location *time.Location
}

// NewDailyTrigger parses an HH:MM time of day evaluated in loc (UTC when nil).
func NewDailyTrigger(clock string, loc *time.Location) (*DailyTrigger, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return nil, fmt.Errorf("invalid schedule time '%s': expected HH:MM", clock)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DailyTrigger{hour: parsed.Hour(), minute: parsed.Minute(), location: loc}, nil
}

func (t *DailyTrigger) Next(after time.Time) (time.Time, error) {
	local := after.In(t.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), t.hour, t.minute, 0, 0, t.location)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, t.hour, t.minute, 0, 0, t.location)
	}
	return next, nil
}

func (t *DailyTrigger) String() string {
	return fmt.Sprintf("daily at %02d:%02d %s", t.hour, t.minute, t.location)
}

type CronTrigger struct {
	expr     string
	location *time.Location
	schedule cron.Schedule
	err      error
}

// NewCronTrigger parses a standard 5-field cron expression. Parse errors are
// kept and returned by every call to Next.
func NewCronTrigger(expr string, loc *time.Location) *CronTrigger {
	if loc == nil {
		loc = time.UTC
	}
	expr = strings.TrimSpace(expr)
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		err = fmt.Errorf("invalid cron expression '%s': %w", expr, err)
	}
	return &CronTrigger{expr: expr, location: loc, schedule: schedule, err: err}
}

func (t *CronTrigger) Err() error {
	return t.err
}

func (t *CronTrigger) Next(after time.Time) (time.Time, error) {
	if t.err != nil {
		return time.Time{}, t.err
	}
	next := t.schedule.Next(after.In(t.location))
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNoFireTime, t.expr)
	}
	return next, nil
}

func (t *CronTrigger) String() string {
	return fmt.Sprintf("cron '%s' %s", t.expr, t.location)
}
