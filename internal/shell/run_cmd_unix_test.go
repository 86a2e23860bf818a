//go:build linux || darwin

package shell_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/shell"
	"github.com/gruntwork-io/casper/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptPath(t *testing.T) string {
	t.Helper()

	path, err := filepath.Abs(filepath.Join("testdata", "test_output.sh"))
	require.NoError(t, err)

	return path
}

func TestRunCommandWithOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	runOpts := &shell.RunOptions{Writer: &stdout, WorkingDir: "testdata"}

	output, err := shell.RunCommandWithOutput(t.Context(), log.New(), runOpts, "", scriptPath(t))
	require.NoError(t, err)

	assert.Equal(t, "stdout from testdata\n", output.Stdout.String())
	assert.Equal(t, "stderr line\n", output.Stderr.String())
	assert.Equal(t, output.Stdout.String(), stdout.String())
}

func TestRunCommandWithOutputFailure(t *testing.T) {
	t.Parallel()

	runOpts := &shell.RunOptions{}
	dir := t.TempDir()

	output, err := shell.RunCommandWithOutput(t.Context(), log.New(), runOpts, dir, scriptPath(t), "3")
	require.Error(t, err)
	require.NotNil(t, output)
	assert.Contains(t, output.Stdout.String(), "stdout from")

	var processErr shell.ProcessExecutionError
	require.True(t, errors.As(err, &processErr))
	assert.Equal(t, dir, processErr.WorkingDir)
	assert.Contains(t, err.Error(), "stderr line")

	exitCode, err := shell.GetExitCode(err)
	require.NoError(t, err)
	assert.Equal(t, 3, exitCode)
}

func TestGetExitCodeUnknownError(t *testing.T) {
	t.Parallel()

	explicit := errors.New("explicit error")

	exitCode, err := shell.GetExitCode(explicit)
	assert.Equal(t, explicit, err)
	assert.Zero(t, exitCode)
}

func TestIsCommandExecutable(t *testing.T) {
	t.Parallel()

	assert.True(t, shell.IsCommandExecutable(scriptPath(t)))
	assert.False(t, shell.IsCommandExecutable(scriptPath(t), "1"))
	assert.False(t, shell.IsCommandExecutable(filepath.Join(t.TempDir(), "missing")))
}
