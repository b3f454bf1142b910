package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lysyi3m/plex-letterboxd/app/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	calls int
	err   error
}

func (j *countingJob) run(context.Context) (export.RunSummary, error) {
	j.calls++
	return export.RunSummary{RunID: "run", Added: j.calls, HistorySize: 10 + j.calls}, j.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestTask(t *testing.T, job *countingJob, clock *fakeClock) *Task {
	t.Helper()
	trigger, err := NewDailyTrigger("03:00", time.UTC)
	require.NoError(t, err)
	task := NewTask(trigger, job.run)
	task.now = clock.Now
	return task
}

func TestTask_RunNowSchedulesNext(t *testing.T) {
	job := &countingJob{}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	task := newTestTask(t, job, clock)

	_, ok := task.NextFireTime()
	assert.False(t, ok)

	task.RunNow(context.Background())

	assert.Equal(t, 1, job.calls)
	next, ok := task.NextFireTime()
	require.True(t, ok)
	assert.True(t, time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC).Equal(next))
}

func TestTask_RunDue(t *testing.T) {
	job := &countingJob{}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	task := newTestTask(t, job, clock)
	task.RunNow(context.Background())

	assert.False(t, task.RunDue(context.Background(), time.Date(2024, 5, 2, 2, 59, 0, 0, time.UTC)))
	assert.Equal(t, 1, job.calls)

	clock.now = time.Date(2024, 5, 2, 3, 0, 30, 0, time.UTC)
	assert.True(t, task.RunDue(context.Background(), clock.now))
	assert.Equal(t, 2, job.calls)

	next, ok := task.NextFireTime()
	require.True(t, ok)
	assert.True(t, time.Date(2024, 5, 3, 3, 0, 0, 0, time.UTC).Equal(next))

	assert.False(t, task.RunDue(context.Background(), clock.now.Add(time.Minute)))
	assert.Equal(t, 2, job.calls)
}

func TestTask_NoCatchUpForMissedFires(t *testing.T) {
	job := &countingJob{}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	task := newTestTask(t, job, clock)
	task.RunNow(context.Background())

	// Three fire times have passed; one run happens and the next one is in
	// the future.
	clock.now = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
	assert.True(t, task.RunDue(context.Background(), clock.now))
	assert.False(t, task.RunDue(context.Background(), clock.now))

	next, _ := task.NextFireTime()
	assert.True(t, time.Date(2024, 5, 5, 3, 0, 0, 0, time.UTC).Equal(next))
	assert.Equal(t, 2, job.calls)
}

func TestTask_InvalidCronKeepsTicking(t *testing.T) {
	job := &countingJob{}
	task := NewTask(NewCronTrigger("61 * * * *", time.UTC), job.run)

	assert.NotPanics(t, func() {
		task.RunNow(context.Background())
		assert.False(t, task.RunDue(context.Background(), time.Now()))
		assert.False(t, task.RunDue(context.Background(), time.Now()))
	})

	assert.Equal(t, 1, job.calls)
	_, ok := task.NextFireTime()
	assert.False(t, ok)
	assert.NotEmpty(t, task.Status().NextError)
}

func TestTask_Status(t *testing.T) {
	job := &countingJob{}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	task := newTestTask(t, job, clock)

	status := task.Status()
	assert.Equal(t, 0, status.Runs)
	assert.Nil(t, status.LastRun)
	assert.Nil(t, status.NextRun)
	assert.Equal(t, "daily at 03:00 UTC", status.Trigger)

	task.RunNow(context.Background())
	job.err = errors.New("history unreadable")
	clock.now = time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)
	task.RunDue(context.Background(), clock.now)

	status = task.Status()
	assert.Equal(t, 2, status.Runs)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, 12, status.LastRun.HistorySize)
	assert.Equal(t, "history unreadable", status.LastError)
	require.NotNil(t, status.NextRun)
	assert.True(t, time.Date(2024, 5, 3, 3, 0, 0, 0, time.UTC).Equal(*status.NextRun))
}
