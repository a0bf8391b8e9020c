package cmd

import (
	"fmt"

	"github.com/quorix/quorix/internal/errors"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	msg, err := e.client.Ping(cmd.Context())
	if err != nil {
		return fmt.Errorf("backend unreachable at %s: %s", e.cfg.API.URL, errors.UserMessage(err, "Network error"))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backend says: %s\n", msg)
	return nil
}
