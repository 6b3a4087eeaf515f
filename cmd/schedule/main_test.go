package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	day := func(d, h, m int) time.Time {
		return time.Date(2025, 7, d, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"slot still ahead today", day(15, 2, 0), day(15, 3, 0)},
		{"slot already passed", day(15, 4, 0), day(16, 3, 0)},
		{"exactly on the slot rolls over", day(15, 3, 0), day(16, 3, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextRun(tt.now, 3, 0))
		})
	}
}

func TestRunMarker(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 7, 15, 3, 0, 0, 0, time.UTC)

	assert.False(t, alreadyRanToday(dir, now), "no marker yet")
	require.NoError(t, markRun(dir, now))
	assert.True(t, alreadyRanToday(dir, now))
	assert.True(t, alreadyRanToday(dir, now.Add(8*time.Hour)), "same calendar day")
	assert.False(t, alreadyRanToday(dir, now.AddDate(0, 0, 1)), "next day runs again")
}

func TestRunMarkerIgnoresGarbage(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	require.NoError(t, markRun(dir, now))
	// A corrupt marker must not block the run.
	require.NoError(t, os.WriteFile(filepath.Join(dir, lastRunMarker), []byte("not a timestamp"), 0o644))
	assert.False(t, alreadyRanToday(dir, now))
}
