package capturetest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/capture-client/internal/capturetest"
	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

type exchange struct {
	status int
	result json.RawMessage
	fault  *capture.FaultResponse
}

func post(t *testing.T, server *httptest.Server, servicePath, operation string, body map[string]interface{}) exchange {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+servicePath+"/"+operation, "application/json", bytes.NewReader(encoded)) //nolint:noctx // Test request
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	result := exchange{status: resp.StatusCode}

	if resp.StatusCode >= http.StatusBadRequest {
		result.fault, err = capture.ParseFaultResponse(data)
		require.NoError(t, err)

		return result
	}

	var envelope struct {
		D json.RawMessage `json:"d"`
	}

	err = json.Unmarshal(data, &envelope)
	require.NoError(t, err)

	result.result = envelope.D

	return result
}

func call(t *testing.T, server *httptest.Server, sessionID, operation string, body map[string]interface{}) exchange {
	t.Helper()

	if body == nil {
		body = map[string]interface{}{}
	}

	body["sessionId"] = sessionID

	return post(t, server, constants.CaptureServicePath, operation, body)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var value T

	require.NoError(t, json.Unmarshal(raw, &value))

	return value
}

func TestServer_LogOn(t *testing.T) {
	t.Parallel()

	sandbox := capturetest.New(capturetest.WithLogger(hclog.NewNullLogger()))
	sandbox.AddUser("tester", "secret")
	server := sandbox.Start(t)

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		resp := post(t, server, constants.UserServicePath, constants.OpLogOnWithPassword, map[string]interface{}{
			"userIdentityWithPassword": map[string]string{"userId": "tester", "password": "secret"},
		})
		require.Equal(t, http.StatusOK, resp.status)

		sessionID := decode[string](t, resp.result)
		assert.Len(t, sessionID, 32)

		folder := call(t, server, sessionID, constants.OpCreateFolder, map[string]interface{}{"insertIndex": -1})
		assert.Equal(t, http.StatusOK, folder.status)

		logOff := post(t, server, constants.UserServicePath, constants.OpLogOff, map[string]interface{}{"sessionId": sessionID})
		assert.Equal(t, http.StatusOK, logOff.status)

		rejected := call(t, server, sessionID, constants.OpCreateFolder, map[string]interface{}{"insertIndex": -1})
		assert.Equal(t, http.StatusUnauthorized, rejected.status)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()

		resp := post(t, server, constants.UserServicePath, constants.OpLogOnWithPassword, map[string]interface{}{
			"userIdentityWithPassword": map[string]string{"userId": "tester", "password": "nope"},
		})
		require.Equal(t, http.StatusUnauthorized, resp.status)
		require.NotNil(t, resp.fault.FirstFault())
		assert.Equal(t, capture.FaultCodeInvalidSession, resp.fault.FirstFault().Code)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestServer_FaultStatus(t *testing.T) {
	t.Parallel()

	sandbox := capturetest.New()
	sessionID := sandbox.NewSession("tester")
	server := sandbox.Start(t)

	root := decode[string](t, call(t, server, sessionID, constants.OpCreateFolder, map[string]interface{}{"insertIndex": -1}).result)
	child := decode[string](t, call(t, server, sessionID, constants.OpCreateFolder, map[string]interface{}{
		"parentId":    root,
		"insertIndex": -1,
	}).result)

	tests := []struct {
		name      string
		sessionID string
		operation string
		body      map[string]interface{}
		status    int
		code      int
	}{
		{
			name:      "missing session",
			sessionID: "unknown",
			operation: constants.OpGetFolder,
			body:      map[string]interface{}{"folderId": root},
			status:    http.StatusUnauthorized,
			code:      capture.FaultCodeInvalidSession,
		},
		{
			name:      "unknown operation",
			sessionID: sessionID,
			operation: "DoSomethingElse",
			status:    http.StatusInternalServerError,
			code:      capture.FaultCodeRemote,
		},
		{
			name:      "unknown folder",
			sessionID: sessionID,
			operation: constants.OpGetFolder,
			body:      map[string]interface{}{"folderId": "missing"},
			status:    http.StatusNotFound,
			code:      capture.FaultCodeNotFound,
		},
		{
			name:      "insert index below append",
			sessionID: sessionID,
			operation: constants.OpCreateFolder,
			body:      map[string]interface{}{"insertIndex": -2},
			status:    http.StatusConflict,
			code:      capture.FaultCodeInvalidOperation,
		},
		{
			name:      "level change",
			sessionID: sessionID,
			operation: constants.OpMoveFolder,
			body:      map[string]interface{}{"folderId": child, "newParentId": "", "index": 0},
			status:    http.StatusConflict,
			code:      capture.FaultCodeInvalidOperation,
		},
		{
			name:      "keep documents of a root folder",
			sessionID: sessionID,
			operation: constants.OpDeleteFolder,
			body:      map[string]interface{}{"folderId": root, "options": map[string]bool{"keepDocuments": true}},
			status:    http.StatusConflict,
			code:      capture.FaultCodeInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := call(t, server, tt.sessionID, tt.operation, tt.body)
			require.Equal(t, tt.status, resp.status)
			require.NotNil(t, resp.fault)
			require.Len(t, resp.fault.Faults, 1)
			assert.Equal(t, tt.code, resp.fault.Faults[0].Code)
			assert.NotEmpty(t, resp.fault.Faults[0].Detail)
		})
	}
}

func TestServer_LocksAndForcedDelete(t *testing.T) {
	t.Parallel()

	sandbox := capturetest.New()
	sessionID := sandbox.NewSession("tester")
	server := sandbox.Start(t)

	root := decode[string](t, call(t, server, sessionID, constants.OpCreateFolder, map[string]interface{}{"insertIndex": -1}).result)
	created := decode[capture.CreatedDocument](t, call(t, server, sessionID, constants.OpCreateDocument, map[string]interface{}{
		"parentId":    root,
		"insertIndex": -1,
	}).result)

	sandbox.Lock(capture.LockedItem{ID: created.DocumentID, Type: capture.ItemTypeDocument})
	assert.True(t, sandbox.IsLocked(created.DocumentID))

	resp := call(t, server, sessionID, constants.OpDeleteFolder, map[string]interface{}{"folderId": root})
	require.Equal(t, http.StatusPreconditionFailed, resp.status)

	resp = call(t, server, sessionID, constants.OpForceUnlockItem, map[string]interface{}{
		"item": capture.LockedItem{ID: created.DocumentID, Type: capture.ItemTypeFolder},
	})
	require.Equal(t, http.StatusNotFound, resp.status)

	resp = call(t, server, sessionID, constants.OpDeleteFolder, map[string]interface{}{"folderId": root, "force": true})
	require.Equal(t, http.StatusOK, resp.status)
	assert.False(t, sandbox.IsLocked(created.DocumentID))

	resp = call(t, server, sessionID, constants.OpGetDocument, map[string]interface{}{"documentId": created.DocumentID})
	assert.Equal(t, http.StatusNotFound, resp.status)
}

func TestServer_AddFieldRule(t *testing.T) {
	t.Parallel()

	sandbox := capturetest.New()
	sessionID := sandbox.NewSession("tester")
	server := sandbox.Start(t)

	require.Error(t, sandbox.AddFieldRule("Invoice", "Total", "("))
	require.NoError(t, sandbox.AddFieldRule("Invoice", "Total", `^\d+\.\d{2}$`))

	resp := call(t, server, sessionID, constants.OpValidateDocumentFields, map[string]interface{}{
		"documentTypeId": "Invoice",
		"fields": []capture.RuntimeField{
			capture.Field("Total", "10.00"),
			capture.Field("Total", "ten"),
			capture.Field("Customer", ""),
		},
	})
	require.Equal(t, http.StatusOK, resp.status)

	results := decode[[]capture.FieldValidationResult](t, resp.result)
	require.Len(t, results, 3)
	assert.True(t, results[0].Valid)
	assert.False(t, results[1].Valid)
	assert.Contains(t, results[1].ErrorMessage, "does not match")
	assert.False(t, results[2].Valid)

	created := decode[capture.CreatedDocument](t, call(t, server, sessionID, constants.OpCreateDocument, map[string]interface{}{
		"insertIndex":    -1,
		"documentTypeId": "Invoice",
		"fields":         []capture.RuntimeField{capture.Field("Total", "ten")},
	}).result)

	valid := decode[bool](t, call(t, server, sessionID, constants.OpValidateDocument, map[string]interface{}{
		"documentId": created.DocumentID,
	}).result)
	assert.False(t, valid)
}

func TestServer_Handler(t *testing.T) {
	t.Parallel()

	sandbox := capturetest.New()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, constants.CaptureServicePath+"/"+constants.OpGetFolder, nil)
	sandbox.Handler().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
