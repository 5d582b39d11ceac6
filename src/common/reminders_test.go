package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderWindows(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

	from, to := startingSoonWindow(now)
	assert.Equal(t, now.Add(60*time.Minute), from)
	assert.Equal(t, now.Add(65*time.Minute), to)

	from, to = startingNowWindow(now)
	assert.Equal(t, now, from)
	assert.Equal(t, now.Add(2*time.Minute), to)

	from, to = endingSoonWindow(now)
	assert.Equal(t, now.Add(15*time.Minute), from)
	assert.Equal(t, now.Add(20*time.Minute), to)

	from, to = endedWindow(now)
	assert.Equal(t, now.Add(-5*time.Minute), from)
	assert.Equal(t, now, to)
}

func TestWindowsDoNotOverlapBackwards(t *testing.T) {
	now := time.Now()
	for _, window := range []func(time.Time) (time.Time, time.Time){
		startingSoonWindow, startingNowWindow, endingSoonWindow, endedWindow,
	} {
		from, to := window(now)
		assert.True(t, from.Before(to) || from.Equal(to))
	}
}
