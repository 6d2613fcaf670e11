package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	capturehttp "github.com/fivetwenty-io/capture-client/internal/http"
)

// Authenticator talks to the user service.
type Authenticator struct {
	httpClient  *capturehttp.Client
	servicePath string
}

// NewAuthenticator creates an authenticator. An empty servicePath uses the
// default user service path.
func NewAuthenticator(httpClient *capturehttp.Client, servicePath string) *Authenticator {
	if servicePath == "" {
		servicePath = constants.UserServicePath
	}

	return &Authenticator{
		httpClient:  httpClient,
		servicePath: servicePath,
	}
}

type userIdentityWithPassword struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// LogOn exchanges a user name and password for a session id.
func (a *Authenticator) LogOn(ctx context.Context, username, password string) (string, error) {
	body := map[string]interface{}{
		"userIdentityWithPassword": userIdentityWithPassword{UserID: username, Password: password},
	}

	resp, err := a.httpClient.Post(ctx, a.servicePath+"/"+constants.OpLogOnWithPassword, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", constants.ErrLogOnFailed, err)
	}

	var envelope struct {
		D string `json:"d"`
	}

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return "", fmt.Errorf("parsing log on response: %w", err)
	}

	if envelope.D == "" {
		return "", constants.ErrEmptySession
	}

	return envelope.D, nil
}

// LogOff ends a session.
func (a *Authenticator) LogOff(ctx context.Context, sessionID string) error {
	_, err := a.httpClient.Post(ctx, a.servicePath+"/"+constants.OpLogOff, map[string]string{"sessionId": sessionID})
	if err != nil {
		return fmt.Errorf("logging off: %w", err)
	}

	return nil
}
