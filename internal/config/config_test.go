package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SEARCH_KEYWORD", "")
	t.Setenv("TARGET_COUNT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Software Engineer", cfg.Search.Keyword)
	assert.Equal(t, []string{"2", "3", "4"}, cfg.Search.ExperienceLevels)
	assert.Equal(t, 25, cfg.Search.PageSize)
	assert.Equal(t, 300, cfg.Search.TargetCount)
	assert.Equal(t, "DD", cfg.Search.SortBy)
	assert.Equal(t, 3000, cfg.Timing.ApplyTimeoutMs)
	assert.Equal(t, ".storage_state.json", cfg.Paths.StorageState)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Search.RemoteOnly)
	assert.Equal(t, 10000, cfg.Timing.TeardownMs)
}

func TestLoad_PartialSearchBlockKeepsRemoteDefault(t *testing.T) {
	t.Setenv("SEARCH_KEYWORD", "")
	t.Setenv("TARGET_COUNT", "")
	path := writeConfig(t, "search:\n  keyword: Go Dev\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Go Dev", cfg.Search.Keyword)
	assert.True(t, cfg.Search.RemoteOnly)
	assert.Equal(t, 25, cfg.Search.PageSize)
}

func TestLoad_ExplicitZeroAndFalseAreKept(t *testing.T) {
	t.Setenv("SEARCH_KEYWORD", "")
	t.Setenv("TARGET_COUNT", "")
	path := writeConfig(t, `
search:
  remote_only: false
timing:
  teardown_ms: 0
  click_jitter_min_ms: 0
server:
  port: ""
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Search.RemoteOnly)
	assert.Equal(t, 0, cfg.Timing.TeardownMs)
	assert.Equal(t, 0, cfg.Timing.ClickJitterMin)
	assert.Equal(t, 3000, cfg.Timing.ClickJitterMax)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
search:
  keyword: "Backend Engineer"
  remote_only: true
  target_count: 50
timing:
  settle_ms: 500
`)
	t.Setenv("LINKEDIN_EMAIL", "me@example.com")
	t.Setenv("LINKEDIN_PASSWORD", "secret")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("TARGET_COUNT", "75")
	t.Setenv("SEARCH_KEYWORD", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", cfg.Search.Keyword)
	assert.True(t, cfg.Search.RemoteOnly)
	assert.Equal(t, 75, cfg.Search.TargetCount)
	assert.Equal(t, 500, cfg.Timing.SettleMs)
	assert.Equal(t, "me@example.com", cfg.LinkedInEmail)
	assert.Equal(t, int64(42), cfg.TelegramChatID)
}

func TestLoad_InvalidChatID(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Timing.ClickJitterMin = 5000
	cfg.Timing.ClickJitterMax = 1000
	cfg.Search.ExperienceLevels = []string{"2", " "}
	cfg.Scoring.NotifyMinScore = 11

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "click_jitter")
	assert.Contains(t, err.Error(), "experience_levels[1]")
	assert.Contains(t, err.Error(), "notify_min_score")
}

func TestValidate_ZeroTimeoutsRejected(t *testing.T) {
	cfg := Defaults()
	cfg.Timing.RunTimeoutMin = 0
	cfg.Timing.ApplyTimeoutMs = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run_timeout_min")
	assert.Contains(t, err.Error(), "apply_timeout_ms")
}
