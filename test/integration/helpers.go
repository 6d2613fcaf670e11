//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Endpoint    string
	Username    string
	Password    string
	CapturePath string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint:    os.Getenv("CAPTURE_TEST_ENDPOINT"),
		Username:    os.Getenv("CAPTURE_TEST_USERNAME"),
		Password:    os.Getenv("CAPTURE_TEST_PASSWORD"),
		CapturePath: getCapturePath(),
		Verbose:     os.Getenv("CAPTURE_VERBOSE") == "true",
	}
}

// getCapturePath determines the path to the capture binary
func getCapturePath() string {
	if path := os.Getenv("CAPTURE_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../capture",
		"./capture",
		"../capture",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "capture" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Endpoint == "" || config.Username == "" {
		t.Skip("CAPTURE_TEST_ENDPOINT or CAPTURE_TEST_USERNAME not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.CapturePath); err != nil {
		t.Skipf("capture binary not found at %s, skipping integration test", config.CapturePath)
	}
}

// CommandRunner runs the capture binary against an isolated config file
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a capture command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.CapturePath, args...) //nolint:gosec // Test binary path
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.CapturePath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login logs on with the configured credentials
func (runner *CommandRunner) Login() error {
	_, stderr, err := runner.Run("login",
		"--api", runner.config.Endpoint,
		"--username", runner.config.Username,
		"--password", runner.config.Password)
	if err != nil {
		return fmt.Errorf("failed to log on: %s", stderr)
	}

	return nil
}

// RunJSON executes a command with JSON output and decodes the result into target
func (runner *CommandRunner) RunJSON(target interface{}, args ...string) {
	runner.t.Helper()

	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	require.NoError(runner.t, err, "command %v failed: %s", args, stderr)
	require.NoError(runner.t, json.Unmarshal([]byte(stdout), target), "output is not JSON: %s", stdout)
}

// CreatedID runs a creating command and returns the single id it printed
func (runner *CommandRunner) CreatedID(heading string, args ...string) string {
	runner.t.Helper()

	var ids map[string][]string

	runner.RunJSON(&ids, args...)
	require.Len(runner.t, ids[heading], 1)

	return ids[heading][0]
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupFolder attempts to delete a test folder and everything in it
func (runner *CommandRunner) CleanupFolder(folderID string) {
	stdout, stderr, err := runner.Run("folders", "delete", folderID, "--force")
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for folder %s: %s\nStderr: %s", folderID, stdout, stderr)
	}
}
