package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithEnvChannel(t *testing.T) {
	t.Setenv("YT_CHANNEL_ID", "UC-owner")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "UC-owner", cfg.ChannelID)
	assert.Equal(t, 5, cfg.MaxVideos)
	assert.Equal(t, 50, cfg.MaxResults)
	assert.Equal(t, 7, cfg.MaxAgeDays)
	assert.Equal(t, 4, cfg.MinCommentLength)
	assert.Equal(t, 30, cfg.ReplyDelayMin)
	assert.Equal(t, 120, cfg.ReplyDelayMax)
	assert.Equal(t, 10*time.Minute, cfg.PollInterval)
	assert.Equal(t, "default", cfg.Identity)
	assert.Equal(t, "personas", cfg.PersonaDir)
	assert.Equal(t, "data", cfg.DataDir)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
channel_id: UC-yaml
max_videos: 3
max_age_days: 14
reply_delay_min: 10
reply_delay_max: 20
poll_interval: 5m
identity: casual
video_ids:
  - v1
  - v2
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "UC-yaml", cfg.ChannelID)
	assert.Equal(t, 3, cfg.MaxVideos)
	assert.Equal(t, 14, cfg.MaxAgeDays)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, "casual", cfg.Identity)
	assert.Equal(t, []string{"v1", "v2"}, cfg.VideoIDs)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channel_id: UC-yaml\nmax_videos: 3\n"), 0644))

	t.Setenv("YT_CHANNEL_ID", "UC-env")
	t.Setenv("MAX_VIDEOS", "9")
	t.Setenv("YT_VIDEO_IDS", " v1, v2 ,,v3 ")
	t.Setenv("GEMINI_API_KEY", "secret-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "UC-env", cfg.ChannelID)
	assert.Equal(t, 9, cfg.MaxVideos)
	assert.Equal(t, []string{"v1", "v2", "v3"}, cfg.VideoIDs)
	assert.Equal(t, "secret-key", cfg.GeminiAPIKey)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channel_id: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.ChannelID = "UC-owner"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults with channel", mutate: func(*Config) {}, ok: true},
		{name: "video ids instead of channel", mutate: func(c *Config) { c.ChannelID = ""; c.VideoIDs = []string{"v1"} }, ok: true},
		{name: "no target at all", mutate: func(c *Config) { c.ChannelID = "" }, ok: false},
		{name: "max results too high", mutate: func(c *Config) { c.MaxResults = 101 }, ok: false},
		{name: "max results too low", mutate: func(c *Config) { c.MaxResults = 0 }, ok: false},
		{name: "max videos zero", mutate: func(c *Config) { c.MaxVideos = 0 }, ok: false},
		{name: "negative min length", mutate: func(c *Config) { c.MinCommentLength = -1 }, ok: false},
		{name: "inverted delay bounds", mutate: func(c *Config) { c.ReplyDelayMin = 60; c.ReplyDelayMax = 30 }, ok: false},
		{name: "equal delay bounds", mutate: func(c *Config) { c.ReplyDelayMin = 45; c.ReplyDelayMax = 45 }, ok: true},
		{name: "zero delays", mutate: func(c *Config) { c.ReplyDelayMin = 0; c.ReplyDelayMax = 0 }, ok: true},
		{name: "poll interval too short", mutate: func(c *Config) { c.PollInterval = 30 * time.Second }, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
