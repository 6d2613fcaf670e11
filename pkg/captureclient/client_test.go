package captureclient_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/capture-client/internal/capturetest"
	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
	"github.com/fivetwenty-io/capture-client/pkg/captureclient"
)

type sessionOnlyClient struct {
	capture.Client
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint string
		expected string
	}{
		{name: "adds scheme", endpoint: "capture.example.com/Sdk", expected: "https://capture.example.com/Sdk"},
		{name: "keeps http", endpoint: "http://127.0.0.1:8765", expected: "http://127.0.0.1:8765"},
		{name: "trims slashes", endpoint: "https://capture.example.com/Sdk//", expected: "https://capture.example.com/Sdk"},
		{
			name:     "trims capture service path",
			endpoint: "https://capture.example.com/Sdk" + constants.CaptureServicePath + "/",
			expected: "https://capture.example.com/Sdk",
		},
		{
			name:     "trims user service path",
			endpoint: "https://capture.example.com/Sdk" + constants.UserServicePath,
			expected: "https://capture.example.com/Sdk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, captureclient.NormalizeEndpoint(tt.endpoint))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := captureclient.New(context.Background(), nil)
		require.ErrorIs(t, err, capture.ErrConfigRequired)
	})

	t.Run("requires endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := captureclient.New(context.Background(), &capture.Config{SessionID: "abc"})
		require.ErrorIs(t, err, capture.ErrEndpointRequired)
	})

	t.Run("does not modify the caller's config", func(t *testing.T) {
		t.Parallel()

		config := &capture.Config{Endpoint: "capture.example.com/", SessionID: "abc"}

		client, err := captureclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "capture.example.com/", config.Endpoint)
	})
}

func TestNewWithSession(t *testing.T) {
	t.Parallel()

	sandbox := capturetest.New()
	sessionID := sandbox.NewSession("tester")
	server := sandbox.Start(t)

	client, err := captureclient.NewWithSession(context.Background(), server.URL+constants.CaptureServicePath, sessionID)
	require.NoError(t, err)

	folderID, err := client.Folders().Create(context.Background(), &capture.FolderCreateRequest{InsertIndex: capture.AppendIndex})
	require.NoError(t, err)
	assert.NotEmpty(t, folderID)
}

func TestNewWithPassword(t *testing.T) {
	t.Parallel()

	sandbox := capturetest.New()
	sandbox.AddUser("tester", "secret")
	server := sandbox.Start(t)

	t.Run("logs on immediately", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()

		client, err := captureclient.NewWithPassword(ctx, server.URL, "tester", "secret")
		require.NoError(t, err)

		sessionID, err := client.SessionID(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, sessionID)

		require.NoError(t, captureclient.LogOff(ctx, client))
	})

	t.Run("fails on bad credentials", func(t *testing.T) {
		t.Parallel()

		_, err := captureclient.NewWithPassword(context.Background(), server.URL, "tester", "wrong")
		require.Error(t, err)
		assert.True(t, capture.IsInvalidSession(err))
		assert.Contains(t, err.Error(), "logging on as tester")
	})
}

func TestLogOff(t *testing.T) {
	t.Parallel()

	t.Run("ends a supplied session", func(t *testing.T) {
		t.Parallel()

		sandbox := capturetest.New()
		sessionID := sandbox.NewSession("tester")
		server := sandbox.Start(t)
		ctx := context.Background()

		client, err := captureclient.NewWithSession(ctx, server.URL, sessionID)
		require.NoError(t, err)

		require.NoError(t, captureclient.LogOff(ctx, client))

		_, err = client.Folders().Get(ctx, "anything")
		require.Error(t, err)
		assert.True(t, capture.IsInvalidSession(err))
	})

	t.Run("unsupported client", func(t *testing.T) {
		t.Parallel()

		err := captureclient.LogOff(context.Background(), sessionOnlyClient{})
		require.ErrorIs(t, err, captureclient.ErrLogOffUnsupported)
	})
}
