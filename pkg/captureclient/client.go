// Package captureclient provides the main entry point for creating capture service clients
package captureclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/capture-client/internal/client"
	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// ErrLogOffUnsupported is returned by LogOff for clients that cannot end their session.
var ErrLogOffUnsupported = errors.New("client does not support log off")

// New creates a new capture client. When the config carries credentials but
// no session, New logs on before returning so bad credentials fail here.
func New(ctx context.Context, config *capture.Config) (capture.Client, error) {
	if config == nil {
		return nil, capture.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, capture.ErrEndpointRequired
	}

	normalized := *config
	normalized.Endpoint = NormalizeEndpoint(config.Endpoint)

	captureClient, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	if normalized.SessionID == "" {
		_, err = captureClient.SessionID(ctx)
		if err != nil {
			return nil, fmt.Errorf("logging on as %s: %w", normalized.Username, err)
		}
	}

	return captureClient, nil
}

// NormalizeEndpoint trims trailing slashes and service paths from endpoint
// and defaults the scheme to https.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimRight(endpoint, "/")
	endpoint = strings.TrimSuffix(endpoint, constants.CaptureServicePath)
	endpoint = strings.TrimSuffix(endpoint, constants.UserServicePath)

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewWithSession creates a new client bound to an existing session.
func NewWithSession(ctx context.Context, endpoint, sessionID string) (capture.Client, error) {
	return New(ctx, &capture.Config{
		Endpoint:  endpoint,
		SessionID: sessionID,
	})
}

// NewWithPassword creates a new client that logs on with username and password.
func NewWithPassword(ctx context.Context, endpoint, username, password string) (capture.Client, error) {
	return New(ctx, &capture.Config{
		Endpoint: endpoint,
		Username: username,
		Password: password,
	})
}

// LogOff ends the session of a client created by this package.
func LogOff(ctx context.Context, captureClient capture.Client) error {
	closer, ok := captureClient.(interface {
		LogOff(ctx context.Context) error
	})
	if !ok {
		return ErrLogOffUnsupported
	}

	err := closer.LogOff(ctx)
	if err != nil {
		return fmt.Errorf("logging off: %w", err)
	}

	return nil
}
