package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/nats-io/nats.go"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
	"github.com/fivetwenty-io/capture-client/pkg/captureclient"
)

// newLogger returns the CLI logger. Verbose mode logs at debug level.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if viper.GetBool("verbose") {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "capture",
		Level:  level,
		Output: os.Stderr,
	})
}

// buildInterceptors assembles request ids, verbose logging and the optional
// NATS audit trail. The returned close func releases the NATS connection.
func buildInterceptors(logger capture.Logger) (*capture.InterceptorChain, func(), error) {
	chain := capture.NewInterceptorChain()
	chain.AddRequestInterceptor(capture.RequestIDInterceptor())

	if viper.GetBool("verbose") {
		chain.AddRequestInterceptor(capture.LoggingInterceptor(logger))
		chain.AddResponseInterceptor(capture.LoggingResponseInterceptor(logger))
	}

	natsURL := viper.GetString("audit_nats_url")
	if natsURL == "" {
		return chain, func() {}, nil
	}

	conn, err := nats.Connect(natsURL, nats.Name("capture-cli"))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to audit NATS server: %w", err)
	}

	subject := viper.GetString("audit_subject")
	if subject == "" {
		subject = constants.DefaultAuditSubject
	}

	chain.AddResponseInterceptor(capture.AuditInterceptor(conn, subject, logger))

	return chain, func() {
		_ = conn.Drain()
	}, nil
}

// newClientConfig builds the library config for endpoint from flags,
// environment and config file.
func newClientConfig(endpoint string) (*capture.Config, func(), error) {
	logger := capture.NewHCLogger(newLogger())

	chain, closeFn, err := buildInterceptors(logger)
	if err != nil {
		return nil, nil, err
	}

	return &capture.Config{
		Endpoint:     endpoint,
		Debug:        viper.GetBool("verbose"),
		Logger:       logger,
		Interceptors: chain,
	}, closeFn, nil
}

// CreateClient creates a client bound to the configured session. Callers
// must call the returned close func when done.
func CreateClient(ctx context.Context) (capture.Client, func(), error) {
	endpoint := viper.GetString("api")
	if endpoint == "" {
		return nil, nil, constants.ErrNoEndpointConfigured
	}

	sessionID := viper.GetString("session")
	if sessionID == "" {
		return nil, nil, constants.ErrNoSessionConfigured
	}

	config, closeFn, err := newClientConfig(endpoint)
	if err != nil {
		return nil, nil, err
	}

	config.SessionID = sessionID

	client, err := captureclient.New(ctx, config)
	if err != nil {
		closeFn()

		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, closeFn, nil
}
