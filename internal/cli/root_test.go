package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gestion/internal/config"
	"github.com/roach88/gestion/internal/testutil"
)

// session runs CLI invocations against one database file with a step clock.
type session struct {
	t     *testing.T
	db    string
	clock *testutil.StepClock
}

func newSession(t *testing.T) *session {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{config.EnvDatabase, config.EnvFormat, config.EnvPageSize, config.EnvVerbose} {
		t.Setenv(k, "")
	}
	return &session{t: t, db: filepath.Join(dir, "gestion.db"), clock: testutil.NewStepClock()}
}

// runWithInput executes one invocation reading in as stdin and returns
// stdout, stderr and the exit code.
func (s *session) runWithInput(in string, args ...string) (string, string, int) {
	s.t.Helper()
	var out, errOut bytes.Buffer
	opts := &RootOptions{Format: config.DefaultFormat, clock: s.clock}
	args = append([]string{"--db", s.db}, args...)
	err := execute(context.Background(), opts, args, strings.NewReader(in), &out, &errOut)
	return out.String(), errOut.String(), GetExitCode(err)
}

func (s *session) run(args ...string) (string, string, int) {
	s.t.Helper()
	return s.runWithInput("", args...)
}

// ok runs args and fails the test unless it exits 0.
func (s *session) ok(args ...string) string {
	s.t.Helper()
	out, errOut, code := s.run(args...)
	require.Equal(s.t, ExitSuccess, code, "gestion %v\nstdout: %s\nstderr: %s", args, out, errOut)
	return out
}

// data runs args with --format json and decodes the data payload into v.
func (s *session) data(v any, args ...string) {
	s.t.Helper()
	out := s.ok(append([]string{"--format", "json"}, args...)...)
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(s.t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(s.t, "ok", resp.Status)
	if v != nil {
		require.NoError(s.t, json.Unmarshal(resp.Data, v), string(resp.Data))
	}
}

// fail runs args with --format json and returns the reported error code and
// exit code.
func (s *session) fail(args ...string) (string, int) {
	s.t.Helper()
	out, _, code := s.run(append([]string{"--format", "json"}, args...)...)
	var resp CLIResponse
	require.NoError(s.t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(s.t, "error", resp.Status)
	require.NotNil(s.t, resp.Error)
	return resp.Error.Code, code
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "gestion", cmd.Use)
	assert.Contains(t, cmd.Long, "sales")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"client", "add"}, {"client", "list"}, {"client", "get"}, {"client", "edit"}, {"client", "delete"},
		{"product", "add"}, {"product", "list"}, {"product", "get"}, {"product", "edit"}, {"product", "delete"}, {"product", "restock"},
		{"sale", "record"}, {"sale", "list"}, {"sale", "get"},
		{"export", "clients"}, {"export", "products"}, {"export", "sales"},
		{"shell"},
	}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("db"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	exportCmd, _, err := cmd.Find([]string{"export", "sales"})
	require.NoError(t, err)

	outputFlag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	s := newSession(t)

	_, errOut, code := s.run("--format", "invalid", "client", "list")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "invalid format")
}

func TestUnknownCommandIsCommandError(t *testing.T) {
	s := newSession(t)

	out, errOut, code := s.run("frobnicate")
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Error [COMMAND]")
	assert.Contains(t, errOut, "unknown command")
}

func TestConfigFileSuppliesDatabase(t *testing.T) {
	s := newSession(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.db")
	cfgPath := filepath.Join(dir, "gestion.yaml")
	require.NoError(t, writeText(cfgPath, "database: "+dbPath+"\nformat: json\n"))

	var out, errOut bytes.Buffer
	opts := &RootOptions{Format: config.DefaultFormat, clock: s.clock}
	err := execute(context.Background(), opts,
		[]string{"--config", cfgPath, "client", "add", "--name", "Ana"},
		strings.NewReader(""), &out, &errOut)
	require.NoError(t, err, errOut.String())

	assert.Equal(t, dbPath, opts.Database)
	assert.Contains(t, out.String(), `"status":"ok"`, "format comes from the config file")
	assert.FileExists(t, dbPath)
}

func TestUnopenableDatabaseIsStorageError(t *testing.T) {
	s := newSession(t)
	s.db = filepath.Join(t.TempDir(), "missing", "dir", "gestion.db")

	code, exit := s.fail("client", "list")
	assert.Equal(t, "STORAGE_UNAVAILABLE", code)
	assert.Equal(t, ExitCommandError, exit)
}
