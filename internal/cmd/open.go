package cmd

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/quorix/quorix/internal/state"
	"github.com/quorix/quorix/internal/tui"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/view"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open [route]",
	Short: "Open the dashboard for a route",
	Long: `Open the interactive dashboard for a route, as the web client would for
the same path. Without a route the root dashboard for your role opens.

Routes:
  /                        landing, or your role's home dashboard
  /session/<id>            attendee
  /moderator/<id>          moderator
  /organizer/<id>          organizer
  /speaker/<id>            speaker
  /speaker/<id>/embed      speaker embed (?autoAdvance=true&interval=10)
  /audience/<id>           audience display
  /event/<code>            event landing
  /admin                   admin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		route := "/"
		if len(args) == 1 {
			route = args[0]
		}
		return runDashboard(cmd, route)
	},
}

var (
	speakEmbed       bool
	speakAutoAdvance bool
	speakInterval    int
)

var speakCmd = &cobra.Command{
	Use:   "speak <session>",
	Short: "Present approved questions",
	Long: `Present a session's approved questions one at a time.

--embed opens the presentation layout meant for a projector or stream
overlay; --auto-advance moves to the next question every --interval
seconds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, speakerRoute(args[0], speakEmbed, speakAutoAdvance, speakInterval))
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(sessionCommand("attend", "Join a session as an attendee", view.RouteSession))
	rootCmd.AddCommand(sessionCommand("moderate", "Moderate a session", view.RouteModerator))
	rootCmd.AddCommand(sessionCommand("organize", "Manage an event as its organizer", view.RouteOrganizer))
	rootCmd.AddCommand(sessionCommand("audience", "Show the audience display of a session", view.RouteAudience))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "admin",
		Short: "Open the admin dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, view.SessionRoute(view.RouteAdmin, ""))
		},
	})

	speakCmd.Flags().BoolVar(&speakEmbed, "embed", false, "Use the embeddable presentation layout")
	speakCmd.Flags().BoolVar(&speakAutoAdvance, "auto-advance", false, "Advance automatically (implies --embed)")
	speakCmd.Flags().IntVar(&speakInterval, "interval", 10, "Seconds per question when auto-advancing")
}

// sessionCommand builds a command that opens the kind route of its one
// session argument.
func sessionCommand(use, short string, kind view.RouteKind) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <session>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, view.SessionRoute(kind, args[0]))
		},
	}
}

// speakerRoute builds the speaker route. Auto-advance only exists in the
// embed layout.
func speakerRoute(sessionID string, embed, autoAdvance bool, interval int) string {
	if !embed && !autoAdvance {
		return view.SessionRoute(view.RouteSpeaker, sessionID)
	}
	route := view.SessionRoute(view.RouteSpeakerEmbed, sessionID)
	if !autoAdvance {
		return route
	}
	q := url.Values{}
	q.Set("autoAdvance", "true")
	if interval > 0 {
		q.Set("interval", strconv.Itoa(interval))
	}
	return route + "?" + q.Encode()
}

// runDashboard starts the interactive program on route.
func runDashboard(cmd *cobra.Command, route string) error {
	if !isTerminal(stdoutFd()) {
		return fmt.Errorf("%s needs an interactive terminal", cmd.CommandPath())
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	styles.Apply(e.cfg.TUI.Theme)

	store := e.newStore()
	store.Dispatch(state.Navigate{Route: route})
	e.logger.Info("starting dashboard", "route", route)

	app := tui.New(e.deps(store), e.auth.Store().Path())
	if err := app.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
