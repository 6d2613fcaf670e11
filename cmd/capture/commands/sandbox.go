package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/capture-client/internal/capturetest"
	"github.com/fivetwenty-io/capture-client/internal/constants"
)

// NewSandboxCommand creates the sandbox command
func NewSandboxCommand() *cobra.Command {
	var (
		address  string
		username string
		password string
		rules    []string
	)

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local in-memory capture service",
		Long: `Serve an in-memory capture service for trying the CLI and testing
integrations. Nothing is persisted; state is lost when the command exits.

--rule TYPE:FIELD=PATTERN makes FIELD on document type TYPE valid only when
its value matches PATTERN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := hclog.Info
			if viper.GetBool("verbose") {
				level = hclog.Debug
			}

			logger := hclog.New(&hclog.LoggerOptions{
				Name:   "sandbox",
				Level:  level,
				Output: cmd.ErrOrStderr(),
			})

			sandbox := capturetest.New(capturetest.WithLogger(logger))
			sandbox.AddUser(username, password)

			for _, rule := range rules {
				err := addFieldRule(sandbox, rule)
				if err != nil {
					return err
				}
			}

			listener, err := net.Listen("tcp", address)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", address, err)
			}

			server := &http.Server{
				Handler:           sandbox.Handler(),
				ReadHeaderTimeout: constants.SandboxReadHeaderTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
				defer cancel()

				_ = server.Shutdown(shutdownCtx)
			}()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Sandbox listening on http://%s\n", listener.Addr())
			_, _ = fmt.Fprintf(out, "User:    %s\n", username)
			_, _ = fmt.Fprintf(out, "Session: %s\n", sandbox.NewSession(username))

			err = server.Serve(listener)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("sandbox server failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", constants.DefaultSandboxAddress, "listen address")
	cmd.Flags().StringVarP(&username, "user", "u", "sandbox", "user accepted by log on")
	cmd.Flags().StringVarP(&password, "password", "p", "sandbox", "password accepted by log on")
	cmd.Flags().StringArrayVar(&rules, "rule", nil, "field validation rule TYPE:FIELD=PATTERN (repeatable)")

	return cmd
}

func addFieldRule(sandbox *capturetest.Server, rule string) error {
	target, pattern, ok := strings.Cut(rule, "=")
	if !ok {
		return fmt.Errorf("%w: %q", constants.ErrInvalidFieldRule, rule)
	}

	documentTypeID, field, ok := strings.Cut(target, ":")
	if !ok || documentTypeID == "" || field == "" {
		return fmt.Errorf("%w: %q", constants.ErrInvalidFieldRule, rule)
	}

	return sandbox.AddFieldRule(documentTypeID, field, pattern)
}
