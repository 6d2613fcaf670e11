package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/auth"
	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/internal/http"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// Client implements the capture.Client interface.
type Client struct {
	caller        *caller
	authenticator *auth.Authenticator
	logger        capture.Logger

	// Resource clients
	folders    capture.FoldersClient
	documents  capture.DocumentsClient
	pages      capture.PagesClient
	validation capture.ValidationClient
	locks      capture.LocksClient
}

// New creates a new capture client. A SessionID in config is used as-is;
// otherwise the client logs on with Username and Password at first use.
func New(ctx context.Context, config *capture.Config) (*Client, error) {
	if config == nil {
		return nil, capture.ErrConfigRequired
	}

	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := http.NewClient(config.Endpoint, createHTTPClientOptions(config)...)
	authenticator := auth.NewAuthenticator(httpClient, config.UserServicePath)

	return newClient(config, httpClient, authenticator, createSessionProvider(config, authenticator)), nil
}

// NewWithSessionProvider creates a client that takes its session from
// provider. Credentials in config are ignored.
func NewWithSessionProvider(config *capture.Config, provider auth.SessionProvider) (*Client, error) {
	if config == nil {
		return nil, capture.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, capture.ErrEndpointRequired
	}

	httpClient := http.NewClient(config.Endpoint, createHTTPClientOptions(config)...)
	authenticator := auth.NewAuthenticator(httpClient, config.UserServicePath)

	return newClient(config, httpClient, authenticator, provider), nil
}

func newClient(config *capture.Config, httpClient *http.Client, authenticator *auth.Authenticator, provider auth.SessionProvider) *Client {
	servicePath := config.ServicePath
	if servicePath == "" {
		servicePath = constants.CaptureServicePath
	}

	client := &Client{
		caller: &caller{
			httpClient:  httpClient,
			sessions:    provider,
			servicePath: servicePath,
		},
		authenticator: authenticator,
		logger:        config.Logger,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client
}

func createSessionProvider(config *capture.Config, authenticator *auth.Authenticator) auth.SessionProvider {
	if config.SessionID != "" {
		return auth.NewStaticSession(config.SessionID)
	}

	return auth.NewPasswordSession(authenticator, config.Username, config.Password)
}

func createHTTPClientOptions(config *capture.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin == 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax == 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// Folders implements capture.Client.Folders.
func (c *Client) Folders() capture.FoldersClient {
	return c.folders
}

// Documents implements capture.Client.Documents.
func (c *Client) Documents() capture.DocumentsClient {
	return c.documents
}

// Pages implements capture.Client.Pages.
func (c *Client) Pages() capture.PagesClient {
	return c.pages
}

// Validation implements capture.Client.Validation.
func (c *Client) Validation() capture.ValidationClient {
	return c.validation
}

// Locks implements capture.Client.Locks.
func (c *Client) Locks() capture.LocksClient {
	return c.locks
}

// SessionID implements capture.Client.SessionID.
func (c *Client) SessionID(ctx context.Context) (string, error) {
	sessionID, err := c.caller.sessions.SessionID(ctx)
	if err != nil {
		return "", fmt.Errorf("getting session: %w", err)
	}

	return sessionID, nil
}

// WithSession implements capture.Client.WithSession.
func (c *Client) WithSession(sessionID string) capture.Client {
	client := &Client{
		caller:        c.caller.withSession(auth.NewStaticSession(sessionID)),
		authenticator: c.authenticator,
		logger:        c.logger,
	}

	client.initializeResourceClients()

	return client
}

// LogOff ends the client's session. A session supplied by the caller is
// logged off too.
func (c *Client) LogOff(ctx context.Context) error {
	if closer, ok := c.caller.sessions.(*auth.PasswordSession); ok {
		return closer.Close(ctx)
	}

	sessionID, err := c.caller.sessions.SessionID(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	return c.authenticator.LogOff(ctx, sessionID)
}

func (c *Client) initializeResourceClients() {
	c.folders = NewFoldersClient(c.caller)
	c.documents = NewDocumentsClient(c.caller)
	c.pages = NewPagesClient(c.caller, c.documents)
	c.validation = NewValidationClient(c.caller)
	c.locks = NewLocksClient(c.caller)
}

// loggerAdapter adapts capture.Logger to http.Logger.
type loggerAdapter struct {
	logger capture.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
