// Package config provides CLI commands for managing Quorix configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	appconfig "github.com/quorix/quorix/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Quorix configuration",
	Long: `View or modify Quorix configuration.

Without arguments, displays the effective configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration as YAML",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  quorix config set api.url https://qa.example.com
  quorix config set feed.transport stream
  quorix config set polling.chat_ms 2000

Valid keys:
  api.url                   - Backend base URL
  api.timeout_seconds       - Per-request timeout
  api.rate_limit            - Mutating requests per second (0 disables)
  api.burst                 - Mutating requests allowed back-to-back
  api.token                 - Bearer token sent with every request
  feed.transport            - poll or stream
  feed.reconnect_seconds    - Stream redial delay
  polling.<list>_ms         - Refresh period of a polled list
                              (questions, moderator, chat, links, events,
                              synthesized, speaker)
  tui.theme                 - default, high_contrast, mono
  tui.time_format           - relative, or a Go time layout
  logging.enabled           - Write the debug log (true/false)
  logging.level             - debug, info, warn, error
  logging.dir               - Log directory
  logging.max_size_mb       - Rotate the log at this size
  logging.max_backups       - Rotated logs to keep`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at $XDG_CONFIG_HOME/quorix/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  quorix config reset                 # Reset all to defaults
  quorix config reset feed.transport  # Reset only feed.transport`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyKind is how a value given to "config set" is checked and typed.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindURL
	kindTransport
	kindTheme
	kindLevel
)

var validKeys = map[string]keyKind{
	"api.url":                kindURL,
	"api.timeout_seconds":    kindInt,
	"api.rate_limit":         kindFloat,
	"api.burst":              kindInt,
	"api.token":              kindString,
	"feed.transport":         kindTransport,
	"feed.reconnect_seconds": kindInt,
	"polling.questions_ms":   kindInt,
	"polling.moderator_ms":   kindInt,
	"polling.chat_ms":        kindInt,
	"polling.links_ms":       kindInt,
	"polling.events_ms":      kindInt,
	"polling.synthesized_ms": kindInt,
	"polling.speaker_ms":     kindInt,
	"tui.theme":              kindTheme,
	"tui.time_format":        kindString,
	"logging.enabled":        kindBool,
	"logging.level":          kindLevel,
	"logging.dir":            kindString,
	"logging.max_size_mb":    kindInt,
	"logging.max_backups":    kindInt,
}

// parseValue checks value against the kind of key and returns it typed.
func parseValue(key, value string) (any, error) {
	kind, ok := validKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'quorix config set --help' to see valid keys", key)
	}

	oneOf := func(valid []string) (any, error) {
		if !slices.Contains(valid, value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(valid, ", "))
		}
		return value, nil
	}

	switch kind {
	case kindURL:
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid value for %s: expected an absolute URL", key)
		}
		return value, nil
	case kindTransport:
		return oneOf(appconfig.ValidTransports())
	case kindTheme:
		return oneOf(appconfig.ValidThemes())
	case kindLevel:
		return oneOf(appconfig.ValidLogLevels())
	case kindBool:
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("invalid value for %s: expected a non-negative number", key)
		}
		return f, nil
	}
	return value, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if _, err := appconfig.Load(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	settings := viper.AllSettings()
	if api, ok := settings["api"].(map[string]any); ok {
		if tok, _ := api["token"].(string); tok != "" {
			api["token"] = "********"
		}
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	old := viper.Get(key)
	viper.Set(key, typed)
	if _, err := appconfig.Load(); err != nil {
		viper.Set(key, old)
		return err
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typed)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// writeConfig writes every viper setting to the user's config file.
func writeConfig() (string, error) {
	if err := os.MkdirAll(appconfig.ConfigDir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

const defaultConfigFile = `# Quorix Configuration

# Backend connection
api:
  # Base URL of the Q&A backend
  url: http://localhost:5000
  # Per-request timeout in seconds
  timeout_seconds: 10
  # Mutating requests per second and burst (rate_limit 0 disables the limiter)
  rate_limit: 5
  burst: 10
  # Optional bearer token sent with every request
  token: ""

# How list views receive updates
feed:
  # poll: refetch on a timer; stream: websocket snapshots, falling back to poll
  transport: poll
  # Stream redial delay in seconds
  reconnect_seconds: 3

# Refresh periods in milliseconds
polling:
  questions_ms: 5000
  moderator_ms: 3000
  chat_ms: 3000
  links_ms: 5000
  events_ms: 5000
  synthesized_ms: 5000
  speaker_ms: 3000

# Terminal UI
tui:
  # default, high_contrast or mono
  theme: default
  # relative ("3 minutes ago") or a Go time layout such as "15:04"
  time_format: relative

# Debug log (view it with 'quorix logs')
logging:
  enabled: true
  level: info
  # Empty uses <config dir>/logs
  dir: ""
  max_size_mb: 10
  max_backups: 3
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'quorix config set' to modify values", configFile)
	}
	if err := os.MkdirAll(appconfig.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize Quorix's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_API_URL), also read from ./.env\n",
		appconfig.EnvPrefix, appconfig.EnvPrefix)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "nano", "vi"} {
			if _, err := execLookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

// defaultValues maps every settable key to its default.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"api.url":                d.API.URL,
		"api.timeout_seconds":    d.API.TimeoutSeconds,
		"api.rate_limit":         d.API.RateLimit,
		"api.burst":              d.API.Burst,
		"api.token":              d.API.Token,
		"feed.transport":         d.Feed.Transport,
		"feed.reconnect_seconds": d.Feed.ReconnectSeconds,
		"polling.questions_ms":   d.Polling.QuestionsMs,
		"polling.moderator_ms":   d.Polling.ModeratorMs,
		"polling.chat_ms":        d.Polling.ChatMs,
		"polling.links_ms":       d.Polling.LinksMs,
		"polling.events_ms":      d.Polling.EventsMs,
		"polling.synthesized_ms": d.Polling.SynthesizedMs,
		"polling.speaker_ms":     d.Polling.SpeakerMs,
		"tui.theme":              d.TUI.Theme,
		"tui.time_format":        d.TUI.TimeFormat,
		"logging.enabled":        d.Logging.Enabled,
		"logging.level":          d.Logging.Level,
		"logging.dir":            d.Logging.Dir,
		"logging.max_size_mb":    d.Logging.MaxSizeMB,
		"logging.max_backups":    d.Logging.MaxBackups,
	}
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := defaultValues()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		keys := make([]string, 0, len(defaults))
		for k := range defaults {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			viper.Set(k, defaults[k])
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'quorix config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}
