package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fivetwenty-io/capture-client/internal/auth"
	"github.com/fivetwenty-io/capture-client/internal/constants"
	capturehttp "github.com/fivetwenty-io/capture-client/internal/http"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPersist = errors.New("disk full")

type userService struct {
	logOns  int32
	logOffs int32
}

func (s *userService) handler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case constants.UserServicePath + "/" + constants.OpLogOnWithPassword:
			var body struct {
				Identity struct {
					UserID   string `json:"userId"`
					Password string `json:"password"`
				} `json:"userIdentityWithPassword"`
			}

			_ = json.NewDecoder(request.Body).Decode(&body)

			if body.Identity.Password != "secret" {
				writer.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(writer).Encode(capture.FaultResponse{
					Faults: []capture.Fault{{Code: capture.FaultCodeInvalidSession, Title: "InvalidSession", Detail: "bad credentials"}},
				})

				return
			}

			atomic.AddInt32(&s.logOns, 1)
			_ = json.NewEncoder(writer).Encode(map[string]string{"d": "session-" + body.Identity.UserID})
		case constants.UserServicePath + "/" + constants.OpLogOff:
			atomic.AddInt32(&s.logOffs, 1)
			writer.WriteHeader(http.StatusOK)
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestStaticSession(t *testing.T) {
	t.Parallel()

	sessionID, err := auth.NewStaticSession("abc").SessionID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", sessionID)

	_, err = auth.NewStaticSession("").SessionID(context.Background())
	require.ErrorIs(t, err, constants.ErrEmptySession)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestPasswordSession(t *testing.T) {
	t.Parallel()

	t.Run("logs on once and caches", func(t *testing.T) {
		t.Parallel()

		service := &userService{}
		server := httptest.NewServer(service.handler(t))
		defer server.Close()

		session := auth.NewPasswordSession(auth.NewAuthenticator(capturehttp.NewClient(server.URL), ""), "alice", "secret")

		var waitGroup sync.WaitGroup

		for range 5 {
			waitGroup.Add(1)

			go func() {
				defer waitGroup.Done()

				sessionID, err := session.SessionID(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, "session-alice", sessionID)
			}()
		}

		waitGroup.Wait()
		assert.Equal(t, int32(1), atomic.LoadInt32(&service.logOns))
	})

	t.Run("invalidate logs on again", func(t *testing.T) {
		t.Parallel()

		service := &userService{}
		server := httptest.NewServer(service.handler(t))
		defer server.Close()

		session := auth.NewPasswordSession(auth.NewAuthenticator(capturehttp.NewClient(server.URL), ""), "bob", "secret")

		sessionID, err := session.SessionID(context.Background())
		require.NoError(t, err)

		session.Invalidate("some-other-session")

		_, err = session.SessionID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&service.logOns))

		session.Invalidate(sessionID)

		_, err = session.SessionID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&service.logOns))
	})

	t.Run("close logs off", func(t *testing.T) {
		t.Parallel()

		service := &userService{}
		server := httptest.NewServer(service.handler(t))
		defer server.Close()

		session := auth.NewPasswordSession(auth.NewAuthenticator(capturehttp.NewClient(server.URL), ""), "carol", "secret")

		require.NoError(t, session.Close(context.Background()))
		assert.Equal(t, int32(0), atomic.LoadInt32(&service.logOffs))

		_, err := session.SessionID(context.Background())
		require.NoError(t, err)
		require.NoError(t, session.Close(context.Background()))
		assert.Equal(t, int32(1), atomic.LoadInt32(&service.logOffs))
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()

		service := &userService{}
		server := httptest.NewServer(service.handler(t))
		defer server.Close()

		session := auth.NewPasswordSession(auth.NewAuthenticator(capturehttp.NewClient(server.URL), ""), "dave", "wrong")

		_, err := session.SessionID(context.Background())
		require.ErrorIs(t, err, constants.ErrLogOnFailed)
		assert.True(t, capture.IsInvalidSession(err))
	})
}

func TestAuthenticator_EmptySession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"d": nil})
	}))
	defer server.Close()

	_, err := auth.NewAuthenticator(capturehttp.NewClient(server.URL), "/custom").LogOn(context.Background(), "u", "p")
	require.ErrorIs(t, err, constants.ErrEmptySession)
}

type recordingPersister struct {
	mu       sync.Mutex
	sessions []string
	err      error
}

func (p *recordingPersister) UpdateSession(endpoint, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.sessions = append(p.sessions, endpoint+"|"+sessionID)

	return nil
}

func TestConfigSessionManager(t *testing.T) {
	t.Parallel()

	t.Run("persists new sessions once", func(t *testing.T) {
		t.Parallel()

		persister := &recordingPersister{}
		manager := auth.NewConfigSessionManager(auth.NewStaticSession("s2"), persister, "https://capture.example.com", "s1")

		for range 3 {
			sessionID, err := manager.SessionID(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "s2", sessionID)
		}

		assert.Equal(t, []string{"https://capture.example.com|s2"}, persister.sessions)
	})

	t.Run("unchanged session is not persisted", func(t *testing.T) {
		t.Parallel()

		persister := &recordingPersister{}
		manager := auth.NewConfigSessionManager(auth.NewStaticSession("s1"), persister, "e", "s1")

		_, err := manager.SessionID(context.Background())
		require.NoError(t, err)
		assert.Empty(t, persister.sessions)
	})

	t.Run("persist failure does not fail the call", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewConfigSessionManager(auth.NewStaticSession("s3"), &recordingPersister{err: errPersist}, "e", "")

		sessionID, err := manager.SessionID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "s3", sessionID)
	})

	t.Run("persist failure fails the call when required", func(t *testing.T) {
		t.Parallel()

		persister := &recordingPersister{err: errPersist}
		manager := auth.NewConfigSessionManager(auth.NewStaticSession("s4"), persister, "e", "").RequirePersist()

		_, err := manager.SessionID(context.Background())
		require.ErrorIs(t, err, constants.ErrSessionNotSaved)
		require.ErrorIs(t, err, errPersist)

		persister.err = nil

		sessionID, err := manager.SessionID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "s4", sessionID)
		assert.Equal(t, []string{"e|s4"}, persister.sessions)
	})
}
