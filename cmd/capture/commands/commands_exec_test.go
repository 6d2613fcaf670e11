package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/capture-client/internal/capturetest"
	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// These tests share the global viper instance and must not run in parallel.

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// useSandbox points the CLI at a fresh in-memory service with a valid session.
func useSandbox(t *testing.T, output string) *capturetest.Server {
	t.Helper()

	sandbox := capturetest.New()
	server := sandbox.Start(t)

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("api", server.URL)
	viper.Set("session", sandbox.NewSession("tester"))
	viper.Set("output", output)

	return sandbox
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func createdID(t *testing.T, output, heading string) string {
	t.Helper()

	var ids map[string][]string

	require.NoError(t, json.Unmarshal([]byte(output), &ids))
	require.Len(t, ids[heading], 1)

	return ids[heading][0]
}

func createdDocument(t *testing.T, output string) capture.CreatedDocument {
	t.Helper()

	var created capture.CreatedDocument

	require.NoError(t, json.Unmarshal([]byte(output), &created))
	require.NotEmpty(t, created.DocumentID)

	return created
}

func TestCreateClientRequiresConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, _, err := CreateClient(context.Background())
	require.ErrorIs(t, err, constants.ErrNoEndpointConfigured)

	viper.Set("api", "https://capture.example.com")

	_, _, err = CreateClient(context.Background())
	require.ErrorIs(t, err, constants.ErrNoSessionConfigured)
}

func TestVersionCommandOutput(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("output", constants.FormatJSON)

	output, err := runCommand(t, NewVersionCommand("1.2.3", "abc123", "2026-01-01"))
	require.NoError(t, err)

	var info map[string]string

	require.NoError(t, json.Unmarshal([]byte(output), &info))
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "abc123", info["commit"])

	viper.Set("output", "xml")

	_, err = runCommand(t, NewVersionCommand("1.2.3", "abc123", "2026-01-01"))
	require.ErrorIs(t, err, constants.ErrUnsupportedOutput)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFoldersCommandsAgainstSandbox(t *testing.T) {
	useSandbox(t, constants.FormatJSON)

	output, err := runCommand(t, NewFoldersCommand(), "create", "--name", "Batch", "--field", "Customer=ACME")
	require.NoError(t, err)

	rootID := createdID(t, output, "folder")

	output, err = runCommand(t, NewFoldersCommand(), "create", "--parent", rootID, "--name", "Child")
	require.NoError(t, err)

	childID := createdID(t, output, "folder")

	output, err = runCommand(t, NewFoldersCommand(), "get", rootID)
	require.NoError(t, err)

	var folder capture.Folder

	require.NoError(t, json.Unmarshal([]byte(output), &folder))
	assert.Equal(t, "Batch", folder.Name)
	require.Len(t, folder.Folders, 1)
	assert.Equal(t, childID, folder.Folders[0].ID)

	_, err = runCommand(t, NewFoldersCommand(), "update-fields", rootID, "Customer=Globex", "Region=EU")
	require.NoError(t, err)

	output, err = runCommand(t, NewFoldersCommand(), "fields", rootID, "Customer")
	require.NoError(t, err)

	var values []capture.FieldValue

	require.NoError(t, json.Unmarshal([]byte(output), &values))
	require.Len(t, values, 1)
	assert.Equal(t, "Globex", values[0].Value)

	_, err = runCommand(t, NewFoldersCommand(), "update-fields", rootID, "Customer")
	require.ErrorIs(t, err, constants.ErrInvalidFieldFormat)

	_, err = runCommand(t, NewFoldersCommand(), "status", rootID, "Sideways")
	require.ErrorIs(t, err, capture.ErrUnknownItemStatus)

	_, err = runCommand(t, NewFoldersCommand(), "delete", childID)
	require.NoError(t, err)

	_, err = runCommand(t, NewFoldersCommand(), "get", childID)
	require.Error(t, err)
	assert.True(t, capture.IsNotFound(err))
}

func TestFoldersGetTableOutput(t *testing.T) {
	useSandbox(t, constants.FormatJSON)

	output, err := runCommand(t, NewFoldersCommand(), "create", "--name", "Batch")
	require.NoError(t, err)

	folderID := createdID(t, output, "folder")

	viper.Set("output", constants.FormatTable)

	output, err = runCommand(t, NewFoldersCommand(), "get", folderID)
	require.NoError(t, err)
	assert.Contains(t, output, folderID)
	assert.Contains(t, output, "Batch")
	assert.Contains(t, output, "Review Valid")
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDocumentsCommandsAgainstSandbox(t *testing.T) {
	useSandbox(t, constants.FormatJSON)

	dir := t.TempDir()
	first := filepath.Join(dir, "first.png")
	second := filepath.Join(dir, "second.png")

	require.NoError(t, os.WriteFile(first, pngHeader, 0o600))
	require.NoError(t, os.WriteFile(second, pngHeader, 0o600))

	output, err := runCommand(t, NewDocumentsCommand(), "create-with-pages", "--name", "Invoice", first, second)
	require.NoError(t, err)

	created := createdDocument(t, output)
	assert.NotEmpty(t, created.FolderID)

	output, err = runCommand(t, NewPagesCommand(), "summary", created.DocumentID)
	require.NoError(t, err)

	var pages []capture.PageSummary

	require.NoError(t, json.Unmarshal([]byte(output), &pages))
	require.Len(t, pages, 2)
	assert.Equal(t, constants.MimeTypePNG, pages[0].MimeType)

	output, err = runCommand(t, NewDocumentsCommand(), "split", created.DocumentID, "1")
	require.NoError(t, err)

	splitID := createdID(t, output, "document")

	output, err = runCommand(t, NewDocumentsCommand(), "merge", created.DocumentID, splitID)
	require.NoError(t, err)

	mergedID := createdID(t, output, "document")

	output, err = runCommand(t, NewDocumentsCommand(), "get", mergedID)
	require.NoError(t, err)

	var doc capture.Document

	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.Len(t, doc.Pages, 2)

	_, err = runCommand(t, NewDocumentsCommand(), "copy", mergedID, created.FolderID, "--mode", "sideways")
	require.ErrorIs(t, err, constants.ErrInvalidCopyMode)

	_, err = runCommand(t, NewDocumentsCommand(), "copy", mergedID)
	require.ErrorIs(t, err, constants.ErrDestinationRequired)

	_, err = runCommand(t, NewDocumentsCommand(), "reject", mergedID, "--reason", "blurred")
	require.NoError(t, err)

	output, err = runCommand(t, NewDocumentsCommand(), "get", mergedID)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.True(t, doc.Rejected)
	assert.Equal(t, "blurred", doc.RejectionReason)

	_, err = runCommand(t, NewDocumentsCommand(), "unreject", mergedID)
	require.NoError(t, err)

	_, err = runCommand(t, NewDocumentsCommand(), "delete", mergedID)
	require.NoError(t, err)

	_, err = runCommand(t, NewDocumentsCommand(), "get", mergedID)
	assert.True(t, capture.IsNotFound(err))
}

func TestDocumentsSourceRoundTrip(t *testing.T) {
	useSandbox(t, constants.FormatJSON)

	output, err := runCommand(t, NewDocumentsCommand(), "create", "--name", "Letter")
	require.NoError(t, err)

	created := createdDocument(t, output)

	dir := t.TempDir()
	upload := filepath.Join(dir, "scan.png")
	download := filepath.Join(dir, "out", "scan.png")

	require.NoError(t, os.WriteFile(upload, pngHeader, 0o600))

	_, err = runCommand(t, NewDocumentsCommand(), "source", created.DocumentID)
	require.ErrorIs(t, err, constants.ErrUploadOrDownload)

	output, err = runCommand(t, NewDocumentsCommand(), "source", created.DocumentID, "--upload", upload)
	require.NoError(t, err)
	assert.Contains(t, output, constants.MimeTypePNG)

	_, err = runCommand(t, NewDocumentsCommand(), "source", created.DocumentID, "--out", download)
	require.NoError(t, err)

	data, err := os.ReadFile(download)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestValidateFieldCommand(t *testing.T) {
	sandbox := useSandbox(t, constants.FormatJSON)
	require.NoError(t, sandbox.AddFieldRule("Invoice", "Total", `^\d+$`))

	output, err := runCommand(t, NewValidateCommand(), "field", "Invoice", "Total=abc")
	require.NoError(t, err)

	var results []capture.FieldValidationResult

	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
	assert.NotEmpty(t, results[0].ErrorMessage)

	output, err = runCommand(t, NewValidateCommand(), "field", "Invoice", "Total=12", "Total=x")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Valid)
	assert.False(t, results[1].Valid)
}

func TestUnlockCommand(t *testing.T) {
	sandbox := useSandbox(t, constants.FormatJSON)

	output, err := runCommand(t, NewFoldersCommand(), "create", "--name", "Locked")
	require.NoError(t, err)

	folderID := createdID(t, output, "folder")
	sandbox.Lock(capture.LockedItem{ID: folderID, Type: capture.ItemTypeFolder})

	_, err = runCommand(t, NewUnlockCommand(), folderID, "--type", "page")
	require.ErrorIs(t, err, constants.ErrInvalidItemType)

	output, err = runCommand(t, NewUnlockCommand(), folderID, "--type", "folder")
	require.NoError(t, err)
	assert.Contains(t, output, "Unlocked folder")
	assert.False(t, sandbox.IsLocked(folderID))
}

func TestConfigCommands(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)
	viper.Set("output", constants.FormatJSON)

	_, err := runCommand(t, NewConfigCommand(), "set", "api", "https://capture.example.com")
	require.NoError(t, err)

	_, err = runCommand(t, NewConfigCommand(), "set", "session", "secret-session")
	require.NoError(t, err)

	_, err = runCommand(t, NewConfigCommand(), "set", "colour", "blue")
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var saved Config

	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, "https://capture.example.com", saved.API)
	assert.Equal(t, "secret-session", saved.Session)

	output, err := runCommand(t, NewConfigCommand(), "show")
	require.NoError(t, err)
	assert.NotContains(t, output, "secret-session")
	assert.Contains(t, output, constants.MaskedSecret)

	_, err = runCommand(t, NewConfigCommand(), "unset", "session")
	require.NoError(t, err)
	assert.Empty(t, viper.GetString("session"))
}

func TestConfigPersisterUpdateSession(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)

	err := NewConfigPersister().UpdateSession("https://capture.example.com", "session-1")
	require.NoError(t, err)

	assert.Equal(t, "https://capture.example.com", viper.GetString("api"))
	assert.Equal(t, "session-1", viper.GetString("session"))

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session: session-1")
}

func TestLoginAndLogout(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	sandbox := capturetest.New()
	sandbox.AddUser("tester", "secret")
	server := sandbox.Start(t)

	viper.SetConfigFile(filepath.Join(t.TempDir(), "config.yml"))
	viper.Set("api", server.URL)

	output, err := runCommand(t, NewLoginCommand(), "--username", "tester", "--password", "wrong")
	require.Error(t, err)
	assert.True(t, capture.IsInvalidSession(err))
	assert.NotContains(t, output, "Logged on")

	output, err = runCommand(t, NewLoginCommand(), "--username", "tester", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, output, "Logged on to "+server.URL+" as tester")

	sessionID := viper.GetString("session")
	require.NotEmpty(t, sessionID)

	output, err = runCommand(t, NewLogoutCommand())
	require.NoError(t, err)
	assert.Contains(t, output, "Logged off")
	assert.Empty(t, viper.GetString("session"))
}

func TestLoginFailsWhenSessionCannotBeSaved(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	sandbox := capturetest.New()
	sandbox.AddUser("tester", "secret")
	server := sandbox.Start(t)

	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, nil, 0o600))

	viper.SetConfigFile(filepath.Join(notADir, "config.yml"))
	viper.Set("api", server.URL)

	output, err := runCommand(t, NewLoginCommand(), "--username", "tester", "--password", "secret")
	require.Error(t, err)
	require.ErrorIs(t, err, constants.ErrSessionNotSaved)
	assert.NotContains(t, output, "Logged on")
	assert.Empty(t, viper.GetString("session"))
}

func TestAddFieldRule(t *testing.T) {
	sandbox := capturetest.New()

	require.NoError(t, addFieldRule(sandbox, `Invoice:Total=^\d+$`))
	require.ErrorIs(t, addFieldRule(sandbox, "Invoice:Total"), constants.ErrInvalidFieldRule)
	require.ErrorIs(t, addFieldRule(sandbox, "Total=x"), constants.ErrInvalidFieldRule)
	require.Error(t, addFieldRule(sandbox, "Invoice:Total=("))
}
