package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/auth"
	"github.com/fivetwenty-io/capture-client/internal/http"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// args is the JSON body of a service operation, without the session.
type args map[string]interface{}

// caller invokes capture service operations on behalf of one session.
type caller struct {
	httpClient  *http.Client
	sessions    auth.SessionProvider
	servicePath string
}

// envelope is the success body every operation answers with.
type envelope struct {
	D json.RawMessage `json:"d"`
}

// call posts operation with the session injected into the body and decodes
// the "d" member into result when result is non-nil.
func (c *caller) call(ctx context.Context, operation string, body args, result interface{}) error {
	sessionID, err := c.sessions.SessionID(ctx)
	if err != nil {
		return fmt.Errorf("obtaining session: %w", err)
	}

	payload := make(args, len(body)+1)
	for key, value := range body {
		payload[key] = value
	}

	payload["sessionId"] = sessionID

	resp, err := c.httpClient.Post(ctx, c.servicePath+"/"+operation, payload)
	if err != nil {
		if invalidator, ok := c.sessions.(auth.Invalidator); ok && capture.IsInvalidSession(err) {
			invalidator.Invalidate(sessionID)
		}

		return err
	}

	if result == nil || len(resp.Body) == 0 {
		return nil
	}

	var env envelope

	err = json.Unmarshal(resp.Body, &env)
	if err != nil {
		return fmt.Errorf("parsing %s response: %w", operation, err)
	}

	if len(env.D) == 0 || string(env.D) == "null" {
		return nil
	}

	err = json.Unmarshal(env.D, result)
	if err != nil {
		return fmt.Errorf("parsing %s result: %w", operation, err)
	}

	return nil
}

// withSession returns a caller sharing the transport but bound to sessions.
func (c *caller) withSession(sessions auth.SessionProvider) *caller {
	return &caller{
		httpClient:  c.httpClient,
		sessions:    sessions,
		servicePath: c.servicePath,
	}
}
