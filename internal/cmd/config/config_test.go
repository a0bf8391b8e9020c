package config

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/quorix/quorix/internal/config"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	appconfig.SetDefaults()
	return dir
}

func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	err := fn(cmd, args)
	return buf.String(), err
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr string
	}{
		{key: "api.url", value: "https://qa.example.com", want: "https://qa.example.com"},
		{key: "api.url", value: "qa.example.com", wantErr: "absolute URL"},
		{key: "api.rate_limit", value: "2.5", want: 2.5},
		{key: "api.rate_limit", value: "-1", wantErr: "non-negative"},
		{key: "polling.chat_ms", value: "2000", want: 2000},
		{key: "polling.chat_ms", value: "soon", wantErr: "expected integer"},
		{key: "logging.enabled", value: "false", want: false},
		{key: "logging.enabled", value: "no", wantErr: "true or false"},
		{key: "feed.transport", value: "stream", want: "stream"},
		{key: "feed.transport", value: "smoke", wantErr: "Valid options: poll, stream"},
		{key: "tui.theme", value: "mono", want: "mono"},
		{key: "logging.level", value: "trace", wantErr: "Valid options"},
		{key: "nope.key", value: "1", wantErr: "unknown configuration key"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseValue(tt.key, tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("parseValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestConfigSetWritesFile(t *testing.T) {
	setup(t)

	out, err := run(t, runConfigSet, "feed.transport", "stream")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Set feed.transport = stream") {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(appconfig.ConfigFile())
	if err != nil {
		t.Fatal(err)
	}
	var written map[string]any
	if err := yaml.Unmarshal(data, &written); err != nil {
		t.Fatal(err)
	}
	feed, _ := written["feed"].(map[string]any)
	if feed["transport"] != "stream" {
		t.Errorf("written feed = %v", feed)
	}
}

func TestConfigSetRejectsInvalidCombination(t *testing.T) {
	setup(t)
	viper.Set("api.burst", 0)

	// rate_limit > 0 needs a burst of at least one.
	if _, err := run(t, runConfigSet, "api.rate_limit", "3"); err == nil {
		t.Fatal("expected a validation error")
	}
	if got := viper.GetFloat64("api.rate_limit"); got != 5 {
		t.Errorf("rate_limit = %v after a rejected set, want the old 5", got)
	}
	if _, err := os.Stat(appconfig.ConfigFile()); !os.IsNotExist(err) {
		t.Error("config file written for a rejected value")
	}
}

func TestConfigShowMasksToken(t *testing.T) {
	setup(t)
	viper.Set("api.token", "secret-token")

	out, err := run(t, runConfigShow)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "secret-token") {
		t.Error("token printed in clear")
	}
	for _, want := range []string{"# Config file: (none - using defaults)", "transport: poll", "url: http://localhost:5000", "********"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	setup(t)

	if _, err := run(t, runConfigInit); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(appconfig.ConfigFile())
	if err != nil {
		t.Fatal(err)
	}

	// The commented template must decode to the defaults.
	viper.SetConfigFile(appconfig.ConfigFile())
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("template does not parse: %v\n%s", err, data)
	}
	cfg, err := appconfig.Load()
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *appconfig.Default() {
		t.Errorf("template config = %+v, want defaults", cfg)
	}

	if _, err := run(t, runConfigInit); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init err = %v", err)
	}
}

func TestConfigReset(t *testing.T) {
	setup(t)
	viper.Set("polling.chat_ms", 999)
	viper.Set("tui.theme", "mono")

	out, err := run(t, runConfigReset, "polling.chat_ms")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Reset polling.chat_ms to default: 3000") {
		t.Errorf("output = %q", out)
	}
	if viper.GetInt("polling.chat_ms") != 3000 || viper.GetString("tui.theme") != "mono" {
		t.Error("reset touched the wrong keys")
	}

	if _, err := run(t, runConfigReset); err != nil {
		t.Fatal(err)
	}
	if viper.GetString("tui.theme") != "default" {
		t.Errorf("theme = %q after full reset", viper.GetString("tui.theme"))
	}

	if _, err := run(t, runConfigReset, "bogus"); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestConfigEditUsesEditor(t *testing.T) {
	setup(t)
	t.Setenv("EDITOR", "true")

	var gotName string
	var gotArgs []string
	origCommand := execCommand
	execCommand = func(name string, args ...string) *exec.Cmd {
		gotName, gotArgs = name, args
		return origCommand("true")
	}
	t.Cleanup(func() { execCommand = origCommand })

	if _, err := run(t, runConfigEdit); err != nil {
		t.Fatal(err)
	}
	if gotName != "true" || len(gotArgs) != 1 || gotArgs[0] != appconfig.ConfigFile() {
		t.Errorf("editor invoked as %q %v", gotName, gotArgs)
	}
	if _, err := os.Stat(appconfig.ConfigFile()); err != nil {
		t.Error("edit did not create the config file first")
	}
}

func TestThemeCommands(t *testing.T) {
	setup(t)
	viper.Set("tui.theme", "high_contrast")

	out, err := run(t, runThemeList)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "* high_contrast") || !strings.Contains(out, "  mono") {
		t.Errorf("list output = %q", out)
	}

	out, err = run(t, runThemeInfo, "default")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Primary:") {
		t.Errorf("info output = %q", out)
	}

	out, err = run(t, runThemeInfo, "mono")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No colors") {
		t.Errorf("mono info = %q", out)
	}

	if _, err := run(t, runThemeInfo, "dracula"); err == nil {
		t.Error("unknown theme accepted")
	}
}
