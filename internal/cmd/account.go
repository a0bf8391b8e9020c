package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/quorix/quorix/internal/errors"
	"github.com/spf13/cobra"
)

// Wrappers so tests can stand in for a terminal.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
	stdinFd      = func() uintptr { return os.Stdin.Fd() }
	stdoutFd     = func() uintptr { return os.Stdout.Fd() }
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with an email and an event session code",
	Long: `Sign in with your email and the session code announced at the event.

The session is stored in the config directory and shared by every quorix
process; a dashboard that is already open follows the change.

Missing values are prompted for when stdin is a terminal. The session code
is read without echo.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the stored session belongs to",
	Long: `Show who the stored session belongs to.

With --refresh the backend is asked, which also catches a session it has
since revoked.`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

var (
	loginEmail    string
	loginCode     string
	loginToken    string
	registerEmail string
	registerPass  string
	whoamiRefresh bool
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVar(&loginCode, "code", "", "Event session code")
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Bearer token to send with every request")

	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Account email")
	registerCmd.Flags().StringVar(&registerPass, "password", "", "Account password")

	whoamiCmd.Flags().BoolVar(&whoamiRefresh, "refresh", false, "Ask the backend instead of trusting the stored session")
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	in := bufio.NewReader(cmd.InOrStdin())
	email, err := prompt(cmd, in, loginEmail, "Email: ", false)
	if err != nil {
		return err
	}
	code, err := prompt(cmd, in, loginCode, "Session code: ", true)
	if err != nil {
		return err
	}

	sess, err := e.auth.Login(cmd.Context(), email, code, loginToken)
	if err != nil {
		return fmt.Errorf("%s", errors.UserMessage(err, "Login failed"))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Identity().DisplayName(), sess.Role)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	in := bufio.NewReader(cmd.InOrStdin())
	email, err := prompt(cmd, in, registerEmail, "Email: ", false)
	if err != nil {
		return err
	}
	password, err := prompt(cmd, in, registerPass, "Password: ", true)
	if err != nil {
		return err
	}

	if err := e.auth.Register(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("%s", errors.UserMessage(err, "Registration failed"))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Registration successful. Log in with your event session code.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if e.session == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}
	if err := e.auth.Logout(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	sess := e.session
	if whoamiRefresh && sess != nil {
		sess, err = e.auth.Refresh(cmd.Context())
		if errors.Is(err, errors.ErrNotAuthenticated) {
			sess = nil
		} else if err != nil {
			return fmt.Errorf("%s", errors.UserMessage(err, "Could not reach the backend."))
		}
	}

	out := cmd.OutOrStdout()
	if sess == nil {
		fmt.Fprintln(out, "Not logged in.")
		return nil
	}
	id := sess.Identity()
	fmt.Fprintf(out, "%s (%s)\n", id.DisplayName(), id.Role)
	if id.UserID != "" {
		fmt.Fprintf(out, "User ID: %s\n", id.UserID)
	}
	return nil
}

// prompt returns value, or asks for it when it is empty and stdin is a
// terminal. Secret answers are read without echo.
func prompt(cmd *cobra.Command, in *bufio.Reader, value, label string, secret bool) (string, error) {
	if value != "" || !isTerminal(stdinFd()) {
		return value, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), label)
	if secret {
		b, err := readPassword(stdinFd())
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
