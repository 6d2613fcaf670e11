package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/capture-client/internal/auth"
	"github.com/fivetwenty-io/capture-client/internal/capturetest"
	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// TestSessionID is the session every test client sends.
const TestSessionID = "test-session"

// NewTestClient creates a client bound to TestSessionID against baseURL.
func NewTestClient(baseURL string) *Client {
	client, _ := NewWithSessionProvider(&capture.Config{Endpoint: baseURL}, auth.NewStaticSession(TestSessionID))

	return client
}

// NewSandboxClient starts an in-memory capture service for the test and
// returns a client logged on to it.
func NewSandboxClient(t *testing.T) (*Client, *capturetest.Server) {
	t.Helper()

	sandbox := capturetest.New()
	sandbox.AddUser("tester", "secret")
	server := sandbox.Start(t)

	client, err := New(context.Background(), &capture.Config{
		Endpoint: server.URL,
		Username: "tester",
		Password: "secret",
	})
	require.NoError(t, err)

	return client, sandbox
}

// TestOperation describes one call and the wire exchange it should produce.
type TestOperation struct {
	Name      string
	Operation string
	// WantArgs are compared by JSON encoding against the request body members.
	WantArgs map[string]interface{}
	// Result is returned as the "d" member of a successful response.
	Result interface{}
	// Fault, when set, is returned instead of Result.
	Fault      *capture.Fault
	StatusCode int
	Call       func(ctx context.Context, client *Client) (interface{}, error)
	Check      func(t *testing.T, result interface{})
	WantErr    bool
	ErrKind    capture.FaultKind
	ErrMessage string
	// NoRequest marks calls rejected before anything is sent.
	NoRequest bool
}

// RunOperationTests runs a series of operation tests.
func RunOperationTests(t *testing.T, tests []TestOperation) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			var called atomic.Bool

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				called.Store(true)

				assert.Equal(t, constants.CaptureServicePath+"/"+testCase.Operation, request.URL.Path)
				assert.Equal(t, http.MethodPost, request.Method)

				var body map[string]json.RawMessage

				err := json.NewDecoder(request.Body).Decode(&body)
				assert.NoError(t, err)
				assert.JSONEq(t, `"`+TestSessionID+`"`, string(body["sessionId"]))

				for key, want := range testCase.WantArgs {
					encoded, err := json.Marshal(want)
					assert.NoError(t, err)

					if assert.Contains(t, body, key) {
						assert.JSONEq(t, string(encoded), string(body[key]), "argument %q", key)
					}
				}

				writer.Header().Set("Content-Type", "application/json")

				if testCase.Fault != nil {
					status := testCase.StatusCode
					if status == 0 {
						status = http.StatusInternalServerError
					}

					writer.WriteHeader(status)
					_ = json.NewEncoder(writer).Encode(capture.FaultResponse{Faults: []capture.Fault{*testCase.Fault}})

					return
				}

				writer.WriteHeader(http.StatusOK)
				_ = json.NewEncoder(writer).Encode(map[string]interface{}{"d": testCase.Result})
			}))
			defer server.Close()

			result, err := testCase.Call(context.Background(), NewTestClient(server.URL))

			assert.Equal(t, !testCase.NoRequest, called.Load())

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrKind != "" {
					kind, ok := capture.FaultKindOf(err)
					require.True(t, ok, "expected a fault, got %v", err)
					assert.Equal(t, testCase.ErrKind, kind)
				}

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				return
			}

			require.NoError(t, err)

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}

// fault builds a fault for test responses.
func fault(kind capture.FaultKind, detail string) *capture.Fault {
	return capture.NewFault(kind, detail)
}
