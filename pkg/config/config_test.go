package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 2, cfg.Timetable.Grade)
	assert.Equal(t, 1, cfg.Timetable.BlockMargin)
	assert.Equal(t, "2학기 강의실", cfg.Timetable.ClassroomSheet)
	assert.Equal(t, 30, cfg.Overlap.Threshold)
	assert.Equal(t, 5, cfg.Overlap.TopK)
	assert.Equal(t, time.Date(2023, time.August, 14, 0, 0, 0, 0, time.UTC), cfg.Calendar.TermStart)
	assert.Equal(t, "Asia/Seoul", cfg.Calendar.Location)
	assert.Equal(t, 24*time.Hour, cfg.Exports.SignedURLTTL)
	assert.False(t, cfg.Exports.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TIMETABLE_GRADE", "3")
	t.Setenv("OVERLAP_THRESHOLD", "12")
	t.Setenv("TERM_START", "2024-03-04")
	t.Setenv("TERM_END", "not-a-date")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ENABLE_EXPORTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Timetable.Grade)
	assert.Equal(t, 12, cfg.Overlap.Threshold)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), cfg.Calendar.TermStart)
	assert.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), cfg.Calendar.TermEnd)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Exports.Enabled)
}

func TestLoadReadsDotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("TIMETABLE_BLOCK_MARGIN=2\nOVERLAP_TOP_K=9\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TIMETABLE_BLOCK_MARGIN")
		os.Unsetenv("OVERLAP_TOP_K")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Timetable.BlockMargin)
	assert.Equal(t, 9, cfg.Overlap.TopK)
}
