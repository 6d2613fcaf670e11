package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/capture-client/internal/auth"
	"github.com/fivetwenty-io/capture-client/internal/client"
	"github.com/fivetwenty-io/capture-client/internal/constants"
	capturehttp "github.com/fivetwenty-io/capture-client/internal/http"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
	"github.com/fivetwenty-io/capture-client/pkg/captureclient"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log on to the capture service",
		Long:  "Log on with a user name and password and store the issued session in the CLI config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())

			endpoint := viper.GetString("api")
			if endpoint == "" {
				endpoint = prompt(reader, cmd.OutOrStdout(), "API endpoint: ")
			}

			if endpoint == "" {
				return constants.ErrEndpointRequired
			}

			endpoint = captureclient.NormalizeEndpoint(endpoint)

			if username == "" {
				username = viper.GetString("username")
			}

			if username == "" {
				username = prompt(reader, cmd.OutOrStdout(), "Username: ")
			}

			if username == "" {
				return constants.ErrUsernameRequired
			}

			if password == "" {
				password = viper.GetString("password")
			}

			if password == "" && !stdinIsTerminal() {
				password = prompt(reader, cmd.OutOrStdout(), "Password: ")
			}

			if password == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = string(bytePassword)

				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}

			config, closeFn, err := newClientConfig(endpoint)
			if err != nil {
				return err
			}
			defer closeFn()

			authenticator := auth.NewAuthenticator(capturehttp.NewClient(endpoint,
				capturehttp.WithTimeout(constants.ShortHTTPTimeout),
				capturehttp.WithInterceptors(config.Interceptors),
			), "")

			viper.Set("username", username)

			passwordSession := auth.NewPasswordSession(authenticator, username, password)
			sessions := auth.NewConfigSessionManager(passwordSession, NewConfigPersister(), endpoint, "").RequirePersist()

			captureClient, err := client.NewWithSessionProvider(config, sessions)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			_, err = captureClient.SessionID(cmd.Context())
			if errors.Is(err, constants.ErrSessionNotSaved) {
				// Log the unsaved session off again.
				_ = passwordSession.Close(cmd.Context())

				return fmt.Errorf("failed to save session: %w", err)
			}

			if err != nil {
				return fmt.Errorf("failed to log on: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged on to %s as %s\n", endpoint, username)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "user name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log off from the capture service",
		Long:  "End the stored session and remove it from the CLI config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			captureClient, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = captureclient.LogOff(cmd.Context(), captureClient)
			if err != nil && !capture.IsInvalidSession(err) {
				return err
			}

			err = NewConfigPersister().UpdateSession(viper.GetString("api"), "")
			if err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged off")

			return nil
		},
	}
}

func prompt(reader *bufio.Reader, w io.Writer, label string) string {
	_, _ = fmt.Fprint(w, label)

	line, _ := reader.ReadString('\n')

	return strings.TrimSpace(line)
}

// stdinIsTerminal reports whether passwords can be read without echo.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
