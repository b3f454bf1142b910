package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestDailyTrigger_Next(t *testing.T) {
	trigger, err := NewDailyTrigger("03:00", time.UTC)
	require.NoError(t, err)

	tests := []struct {
		now      time.Time
		expected time.Time
	}{
		{time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC), time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC), time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 31, 4, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		next, err := trigger.Next(tt.now)
		require.NoError(t, err)
		assert.True(t, next.After(tt.now), "next %v must be after %v", next, tt.now)
		assert.True(t, tt.expected.Equal(next), "now %v: expected %v, got %v", tt.now, tt.expected, next)
	}
}

func TestDailyTrigger_UsesLocation(t *testing.T) {
	berlin := mustLocation(t, "Europe/Berlin")
	trigger, err := NewDailyTrigger("03:00", berlin)
	require.NoError(t, err)

	// 02:30 UTC is already 04:30 in Berlin during summer time.
	next, err := trigger.Next(time.Date(2024, 7, 1, 2, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, time.Date(2024, 7, 2, 1, 0, 0, 0, time.UTC).Equal(next), "got %v", next)
	assert.Equal(t, berlin, next.Location())
}

func TestNewDailyTrigger_Invalid(t *testing.T) {
	for _, value := range []string{"", "3am", "25:00", "12:60", "12-30"} {
		_, err := NewDailyTrigger(value, time.UTC)
		assert.Error(t, err, "value %q", value)
	}
}

func TestCronTrigger_Next(t *testing.T) {
	trigger := NewCronTrigger("30 4 * * *", time.UTC)
	require.NoError(t, trigger.Err())

	now := time.Date(2024, 5, 1, 4, 30, 0, 0, time.UTC)
	next, err := trigger.Next(now)
	require.NoError(t, err)

	assert.True(t, time.Date(2024, 5, 2, 4, 30, 0, 0, time.UTC).Equal(next), "got %v", next)
}

func TestCronTrigger_EvaluatedInLocation(t *testing.T) {
	tokyo := mustLocation(t, "Asia/Tokyo")
	trigger := NewCronTrigger("0 9 * * *", tokyo)

	next, err := trigger.Next(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// 09:00 in Tokyo is midnight UTC, so the first fire is a day later.
	assert.True(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC).Equal(next), "got %v", next)
	assert.Equal(t, 9, next.In(tokyo).Hour())
}

func TestCronTrigger_Invalid(t *testing.T) {
	trigger := NewCronTrigger("every day please", time.UTC)
	require.Error(t, trigger.Err())

	assert.NotPanics(t, func() {
		_, err := trigger.Next(time.Now())
		assert.Error(t, err)
	})
}

func TestCronTrigger_NoUpcomingTime(t *testing.T) {
	trigger := NewCronTrigger("0 0 30 2 *", time.UTC)
	require.NoError(t, trigger.Err())

	_, err := trigger.Next(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, errors.Is(err, ErrNoFireTime))
}

func TestNewTrigger(t *testing.T) {
	trigger, err := NewTrigger("03:00", "", time.UTC)
	require.NoError(t, err)
	assert.IsType(t, &DailyTrigger{}, trigger)

	trigger, err = NewTrigger("not-a-time", "*/5 * * * *", time.UTC)
	require.NoError(t, err)
	assert.IsType(t, &CronTrigger{}, trigger)
	assert.Contains(t, trigger.String(), "*/5 * * * *")

	_, err = NewTrigger("nope", "", time.UTC)
	assert.Error(t, err)
}
