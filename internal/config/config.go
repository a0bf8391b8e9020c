package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g. QUORIX_API_URL.
const EnvPrefix = "QUORIX"

// Config represents the complete Quorix client configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Polling PollingConfig `mapstructure:"polling"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig controls how the client reaches the Quorix backend
type APIConfig struct {
	// URL is the backend base URL, e.g. "http://localhost:5000"
	URL string `mapstructure:"url"`
	// TimeoutSeconds bounds every HTTP request (default: 10)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RateLimit is the sustained number of mutating requests per second (default: 5)
	RateLimit float64 `mapstructure:"rate_limit"`
	// Burst is how many mutating requests may be sent back-to-back (default: 10)
	Burst int `mapstructure:"burst"`
	// Token is an optional bearer token sent with every request
	Token string `mapstructure:"token"`
}

// FeedConfig selects how list views receive updates
type FeedConfig struct {
	// Transport is "poll" (default) or "stream" (websocket snapshots at /ws/...)
	Transport string `mapstructure:"transport"`
	// ReconnectSeconds is the stream redial delay after a read error (default: 3)
	ReconnectSeconds int `mapstructure:"reconnect_seconds"`
}

// PollingConfig holds the refresh period of every polled endpoint, in milliseconds
type PollingConfig struct {
	// QuestionsMs applies to attendee and moderator question lists (default: 5000)
	QuestionsMs int `mapstructure:"questions_ms"`
	// ModeratorMs applies to the moderator queue (default: 3000)
	ModeratorMs int `mapstructure:"moderator_ms"`
	// ChatMs applies to event chat (default: 3000)
	ChatMs int `mapstructure:"chat_ms"`
	// LinksMs applies to moderator-published links (default: 5000)
	LinksMs int `mapstructure:"links_ms"`
	// EventsMs applies to event listings (default: 5000)
	EventsMs int `mapstructure:"events_ms"`
	// SynthesizedMs applies to synthesized question lists (default: 5000)
	SynthesizedMs int `mapstructure:"synthesized_ms"`
	// SpeakerMs applies to the speaker presentation list (default: 3000)
	SpeakerMs int `mapstructure:"speaker_ms"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Theme is the color theme for the TUI (default: "default")
	// Options: "default", "high_contrast", "mono"
	Theme string `mapstructure:"theme"`
	// TimeFormat is "relative" ("3 minutes ago") or a Go time layout (default: "relative")
	TimeFormat string `mapstructure:"time_format"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled turns the debug log on (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum level written: debug, info, warn, error (default: "info")
	Level string `mapstructure:"level"`
	// Dir overrides the log directory (default: "" uses <config dir>/logs)
	Dir string `mapstructure:"dir"`
	// MaxSizeMB rotates the log file at this size (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:            "http://localhost:5000",
			TimeoutSeconds: 10,
			RateLimit:      5,
			Burst:          10,
		},
		Feed: FeedConfig{
			Transport:        TransportPoll,
			ReconnectSeconds: 3,
		},
		Polling: PollingConfig{
			QuestionsMs:   5000,
			ModeratorMs:   3000,
			ChatMs:        3000,
			LinksMs:       5000,
			EventsMs:      5000,
			SynthesizedMs: 5000,
			SpeakerMs:     3000,
		},
		TUI: TUIConfig{
			Theme:      "default",
			TimeFormat: "relative",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Feed transports
const (
	TransportPoll   = "poll"
	TransportStream = "stream"
)

// Timeout returns the HTTP timeout as a duration
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Reconnect returns the stream redial delay as a duration
func (c *FeedConfig) Reconnect() time.Duration {
	return time.Duration(c.ReconnectSeconds) * time.Second
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (c *PollingConfig) Questions() time.Duration   { return ms(c.QuestionsMs) }
func (c *PollingConfig) Moderator() time.Duration   { return ms(c.ModeratorMs) }
func (c *PollingConfig) Chat() time.Duration        { return ms(c.ChatMs) }
func (c *PollingConfig) Links() time.Duration       { return ms(c.LinksMs) }
func (c *PollingConfig) Events() time.Duration      { return ms(c.EventsMs) }
func (c *PollingConfig) Synthesized() time.Duration { return ms(c.SynthesizedMs) }
func (c *PollingConfig) Speaker() time.Duration     { return ms(c.SpeakerMs) }

// LogDir returns the directory the debug log is written to
func (c *LoggingConfig) LogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.url", defaults.API.URL)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)
	viper.SetDefault("api.rate_limit", defaults.API.RateLimit)
	viper.SetDefault("api.burst", defaults.API.Burst)
	viper.SetDefault("api.token", defaults.API.Token)

	// Feed defaults
	viper.SetDefault("feed.transport", defaults.Feed.Transport)
	viper.SetDefault("feed.reconnect_seconds", defaults.Feed.ReconnectSeconds)

	// Polling defaults
	viper.SetDefault("polling.questions_ms", defaults.Polling.QuestionsMs)
	viper.SetDefault("polling.moderator_ms", defaults.Polling.ModeratorMs)
	viper.SetDefault("polling.chat_ms", defaults.Polling.ChatMs)
	viper.SetDefault("polling.links_ms", defaults.Polling.LinksMs)
	viper.SetDefault("polling.events_ms", defaults.Polling.EventsMs)
	viper.SetDefault("polling.synthesized_ms", defaults.Polling.SynthesizedMs)
	viper.SetDefault("polling.speaker_ms", defaults.Polling.SpeakerMs)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.time_format", defaults.TUI.TimeFormat)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quorix")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quorix"
	}
	return filepath.Join(home, ".config", "quorix")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// EnvKeyReplacer maps config keys to environment names ("api.url" -> "API_URL").
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored. With no arguments it reads ./.env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
