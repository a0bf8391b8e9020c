package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.API.URL != "http://localhost:5000" {
		t.Errorf("API.URL = %q, want %q", cfg.API.URL, "http://localhost:5000")
	}
	if cfg.API.TimeoutSeconds != 10 {
		t.Errorf("API.TimeoutSeconds = %d, want 10", cfg.API.TimeoutSeconds)
	}
	if cfg.Feed.Transport != TransportPoll {
		t.Errorf("Feed.Transport = %q, want %q", cfg.Feed.Transport, TransportPoll)
	}

	// Question and event lists refresh every 5s; chat and the speaker view every 3s.
	if cfg.Polling.QuestionsMs != 5000 {
		t.Errorf("Polling.QuestionsMs = %d, want 5000", cfg.Polling.QuestionsMs)
	}
	if cfg.Polling.ChatMs != 3000 {
		t.Errorf("Polling.ChatMs = %d, want 3000", cfg.Polling.ChatMs)
	}
	if cfg.Polling.SpeakerMs != 3000 {
		t.Errorf("Polling.SpeakerMs = %d, want 3000", cfg.Polling.SpeakerMs)
	}
	if cfg.Polling.ModeratorMs != 3000 {
		t.Errorf("Polling.ModeratorMs = %d, want 3000", cfg.Polling.ModeratorMs)
	}

	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.TUI.TimeFormat != "relative" {
		t.Errorf("TUI.TimeFormat = %q, want relative", cfg.TUI.TimeFormat)
	}
}

func TestDurations(t *testing.T) {
	p := PollingConfig{QuestionsMs: 5000, ChatMs: 1500, SpeakerMs: 3000}
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"questions", p.Questions(), 5 * time.Second},
		{"chat", p.Chat(), 1500 * time.Millisecond},
		{"speaker", p.Speaker(), 3 * time.Second},
		{"zero", p.Links(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	api := APIConfig{TimeoutSeconds: 7}
	if api.Timeout() != 7*time.Second {
		t.Errorf("Timeout() = %v", api.Timeout())
	}
	feed := FeedConfig{ReconnectSeconds: 2}
	if feed.Reconnect() != 2*time.Second {
		t.Errorf("Reconnect() = %v", feed.Reconnect())
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got, want := ConfigDir(), "/custom/config/quorix"; got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		if got, want := ConfigDir(), filepath.Join(home, ".config", "quorix"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := ConfigFile(), "/custom/config/quorix/config.yaml"; got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}

func TestLoggingConfig_LogDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	l := LoggingConfig{}
	if got, want := l.LogDir(), "/custom/config/quorix/logs"; got != want {
		t.Errorf("LogDir() = %q, want %q", got, want)
	}
	l.Dir = "/tmp/q"
	if l.LogDir() != "/tmp/q" {
		t.Errorf("LogDir() override = %q", l.LogDir())
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.API.URL != Default().API.URL {
		t.Errorf("Get().API.URL = %q", cfg.API.URL)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.SetEnvPrefix("QUORIX")
	viper.SetEnvKeyReplacer(EnvKeyReplacer())
	viper.AutomaticEnv()

	t.Setenv("QUORIX_API_URL", "https://quorix.example.com")
	t.Setenv("QUORIX_POLLING_CHAT_MS", "1000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.URL != "https://quorix.example.com" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if cfg.Polling.ChatMs != 1000 {
		t.Errorf("Polling.ChatMs = %d", cfg.Polling.ChatMs)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("feed.transport", "carrier-pigeon")

	_, err := Load()
	var verrs ValidationErrors
	if err == nil {
		t.Fatal("Load() should fail validation")
	}
	if ve, ok := err.(ValidationErrors); !ok {
		t.Fatalf("Load() error type = %T, want ValidationErrors", err)
	} else {
		verrs = ve
	}
	if verrs[0].Field != "feed.transport" {
		t.Errorf("Field = %q", verrs[0].Field)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("QUORIX_TEST_DOTENV=from-file\nQUORIX_TEST_PRESET=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUORIX_TEST_PRESET", "from-env")
	t.Setenv("QUORIX_TEST_DOTENV", "")
	_ = os.Unsetenv("QUORIX_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("QUORIX_TEST_DOTENV"); got != "from-file" {
		t.Errorf("QUORIX_TEST_DOTENV = %q", got)
	}
	if got := os.Getenv("QUORIX_TEST_PRESET"); got != "from-env" {
		t.Errorf("existing variable was overridden: %q", got)
	}
}
