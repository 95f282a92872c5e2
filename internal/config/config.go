// Package config resolves the agent configuration from an optional yaml
// file plus environment overrides (a .env file is honored when present).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is an immutable snapshot for the duration of one scan. The engine
// receives it by reference and never mutates it.
type Config struct {
	// Monitored channel; required unless explicit video ids are given.
	ChannelID string `yaml:"channel_id"`
	// Channel id of the replying account. Resolved from the credential
	// provider at startup when empty.
	BotChannelID string `yaml:"bot_channel_id"`
	// Explicit videos to scan instead of the channel's recent uploads.
	VideoIDs []string `yaml:"video_ids"`

	MaxVideos        int `yaml:"max_videos"`
	MaxResults       int `yaml:"max_results"`
	MaxAgeDays       int `yaml:"max_age_days"`
	MinCommentLength int `yaml:"min_comment_length"`

	// Pacing bounds for auto mode, in seconds.
	ReplyDelayMin int `yaml:"reply_delay_min"`
	ReplyDelayMax int `yaml:"reply_delay_max"`

	PollInterval    time.Duration `yaml:"poll_interval"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`

	Identity   string `yaml:"identity"`
	PersonaDir string `yaml:"persona_dir"`
	DataDir    string `yaml:"data_dir"`

	// Host-provided model command; used when no direct API key is set.
	HostCommand string `yaml:"host_command"`

	// Secrets come from the environment only.
	GeminiAPIKey       string `yaml:"-"`
	YouTubeAPIKey      string `yaml:"-"`
	DatabaseURL        string `yaml:"-"`
	TelegramBotToken   string `yaml:"-"`
	TelegramChatID     string `yaml:"-"`
	GoogleClientID     string `yaml:"-"`
	GoogleClientSecret string `yaml:"-"`
}

func defaults() *Config {
	return &Config{
		MaxVideos:        5,
		MaxResults:       50,
		MaxAgeDays:       7,
		MinCommentLength: 4,
		ReplyDelayMin:    30,
		ReplyDelayMax:    120,
		PollInterval:     10 * time.Minute,
		RequestTimeout:   30 * time.Second,
		GenerateTimeout:  2 * time.Minute,
		Identity:         "default",
		PersonaDir:       "personas",
		DataDir:          "data",
	}
}

// Load reads the yaml file at path (missing file is fine), then applies
// environment overrides, then validates. Validation failures are fatal to
// the operation that needed the config and are raised before any work.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := defaults()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.ChannelID, "YT_CHANNEL_ID")
	setString(&c.BotChannelID, "YT_BOT_CHANNEL_ID")
	setString(&c.Identity, "REPLY_IDENTITY")
	setString(&c.PersonaDir, "PERSONA_DIR")
	setString(&c.DataDir, "DATA_DIR")
	setString(&c.HostCommand, "HOST_MODEL_COMMAND")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.YouTubeAPIKey, "YOUTUBE_API_KEY")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.TelegramChatID, "TELEGRAM_CHAT_ID")
	setString(&c.GoogleClientID, "GOOGLE_CLIENT_ID")
	setString(&c.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")

	setInt(&c.MaxVideos, "MAX_VIDEOS")
	setInt(&c.MaxResults, "MAX_RESULTS")
	setInt(&c.MaxAgeDays, "MAX_AGE_DAYS")
	setInt(&c.MinCommentLength, "MIN_COMMENT_LENGTH")
	setInt(&c.ReplyDelayMin, "REPLY_DELAY_MIN")
	setInt(&c.ReplyDelayMax, "REPLY_DELAY_MAX")

	setDuration(&c.PollInterval, "POLL_INTERVAL")
	setDuration(&c.RequestTimeout, "REQUEST_TIMEOUT")
	setDuration(&c.GenerateTimeout, "GENERATE_TIMEOUT")

	if v := os.Getenv("YT_VIDEO_IDS"); v != "" {
		c.VideoIDs = nil
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				c.VideoIDs = append(c.VideoIDs, id)
			}
		}
	}
}

func (c *Config) Validate() error {
	if c.ChannelID == "" && len(c.VideoIDs) == 0 {
		return fmt.Errorf("config: channel_id or video_ids is required")
	}
	if c.MaxResults < 1 || c.MaxResults > 100 {
		return fmt.Errorf("config: max_results must be within [1,100], got %d", c.MaxResults)
	}
	if c.MaxVideos < 1 {
		return fmt.Errorf("config: max_videos must be positive, got %d", c.MaxVideos)
	}
	if c.MinCommentLength < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("config: thresholds must not be negative")
	}
	if c.ReplyDelayMin < 0 || c.ReplyDelayMax < c.ReplyDelayMin {
		return fmt.Errorf("config: reply delay bounds invalid: [%d,%d]", c.ReplyDelayMin, c.ReplyDelayMax)
	}
	if c.PollInterval < time.Minute {
		return fmt.Errorf("config: poll_interval below one minute")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
