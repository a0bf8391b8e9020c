package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "polling.chat_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidTransports returns the list of valid feed transports
func ValidTransports() []string {
	return []string{TransportPoll, TransportStream}
}

// ValidThemes returns the list of built-in TUI themes
func ValidThemes() []string {
	return []string{"default", "high_contrast", "mono"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateFeed()...)
	errors = append(errors, c.validatePolling()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(c.API.URL)
	if c.API.URL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "api.url",
			Value:   c.API.URL,
			Message: "must be an absolute http(s) URL",
		})
	}

	if c.API.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	if c.API.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "api.rate_limit",
			Value:   c.API.RateLimit,
			Message: "must be non-negative (0 disables limiting)",
		})
	}

	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		errors = append(errors, ValidationError{
			Field:   "api.burst",
			Value:   c.API.Burst,
			Message: "must be at least 1 when rate_limit is set",
		})
	}

	return errors
}

func (c *Config) validateFeed() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidTransports(), c.Feed.Transport) {
		errors = append(errors, ValidationError{
			Field:   "feed.transport",
			Value:   c.Feed.Transport,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidTransports(), ", ")),
		})
	}

	if c.Feed.ReconnectSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "feed.reconnect_seconds",
			Value:   c.Feed.ReconnectSeconds,
			Message: "must be at least 1",
		})
	}

	return errors
}

// validatePolling keeps every period between a floor that protects the
// backend and a ceiling past which the views stop feeling live.
func (c *Config) validatePolling() []ValidationError {
	const (
		minPeriodMs = 500
		maxPeriodMs = 10 * 60 * 1000
	)

	var errors []ValidationError
	check := func(field string, v int) {
		if v < minPeriodMs {
			errors = append(errors, ValidationError{
				Field:   "polling." + field,
				Value:   v,
				Message: fmt.Sprintf("must be at least %dms", minPeriodMs),
			})
		} else if v > maxPeriodMs {
			errors = append(errors, ValidationError{
				Field:   "polling." + field,
				Value:   v,
				Message: fmt.Sprintf("exceeds maximum of %dms", maxPeriodMs),
			})
		}
	}

	check("questions_ms", c.Polling.QuestionsMs)
	check("moderator_ms", c.Polling.ModeratorMs)
	check("chat_ms", c.Polling.ChatMs)
	check("links_ms", c.Polling.LinksMs)
	check("events_ms", c.Polling.EventsMs)
	check("synthesized_ms", c.Polling.SynthesizedMs)
	check("speaker_ms", c.Polling.SpeakerMs)

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	if strings.TrimSpace(c.TUI.TimeFormat) == "" {
		errors = append(errors, ValidationError{
			Field:   "tui.time_format",
			Value:   c.TUI.TimeFormat,
			Message: `must be "relative" or a Go time layout`,
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
