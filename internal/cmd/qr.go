package cmd

import (
	"fmt"
	"os"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/qr"
	"github.com/spf13/cobra"
)

var qrCmd = &cobra.Command{
	Use:   "qr <session>",
	Short: "Show the join QR code of a session",
	Long: `Fetch the join QR code the backend renders for a session.

The code is drawn with half-block characters so a phone can scan it off
the terminal. Use --out to save the original image instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runQR,
}

var (
	qrOut   string
	qrLight bool
)

func init() {
	rootCmd.AddCommand(qrCmd)

	qrCmd.Flags().StringVarP(&qrOut, "out", "o", "", "Write the image to this file")
	qrCmd.Flags().BoolVar(&qrLight, "light", false, "Draw for a terminal with a light background")
}

func runQR(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	data, err := e.client.SessionQR(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s", errors.UserMessage(err, "Could not load the QR code."))
	}

	if qrOut != "" {
		if err := os.WriteFile(qrOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", qrOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved QR code to %s\n", qrOut)
		return nil
	}

	opts := qr.DefaultOptions
	opts.Invert = !qrLight
	art, err := qr.Render(data, opts)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), art)
	return nil
}
