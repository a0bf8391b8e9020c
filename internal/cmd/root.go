package cmd

import (
	"fmt"
	"os"

	cmdconfig "github.com/quorix/quorix/internal/cmd/config"
	"github.com/quorix/quorix/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "quorix",
	Short: "Live event Q&A in the terminal",
	Long: `Quorix is a terminal client for a live-event Q&A backend.

Attendees submit questions and chat, moderators curate them, organizers
manage events and roles, and speakers present the approved questions.
Each dashboard is chosen from the route you open and the role you are
signed in with.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/quorix/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "backend base URL (overrides api.url)")

	cmdconfig.Register(rootCmd)
}

func initConfig() {
	// .env values land in the environment before viper looks at it.
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read .env: %v\n", err)
	}

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(config.EnvPrefix)
	// e.g. QUORIX_API_URL for api.url
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer())

	// Bound here rather than in init so a viper.Reset between runs keeps it.
	_ = viper.BindPFlag("api.url", rootCmd.PersistentFlags().Lookup("api-url"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
