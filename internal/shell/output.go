package shell

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gruntwork-io/casper/internal/errors"
)

// CmdOutput holds what a command printed.
type CmdOutput struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// ProcessExecutionError is returned when a command fails to start or exits with a non-zero code.
type ProcessExecutionError struct {
	Err        error
	Output     CmdOutput
	WorkingDir string
	Command    string
	Args       []string
}

func (err ProcessExecutionError) Error() string {
	msg := fmt.Sprintf("Failed to execute \"%s %s\" in %s",
		err.Command,
		strings.Join(err.Args, " "),
		err.WorkingDir,
	)

	if stderr := strings.TrimSpace(err.Output.Stderr.String()); stderr != "" {
		msg += "\n" + stderr
	}

	return fmt.Sprintf("%s\n%v", msg, err.Err)
}

// ExitStatus returns the exit code of the failed command.
func (err ProcessExecutionError) ExitStatus() (int, error) {
	return GetExitCode(err.Err)
}

func (err ProcessExecutionError) Unwrap() error {
	return err.Err
}

// GetExitCode returns the exit code of a command. If the error is neither an exec.ExitError
// nor carries an exit status, the error is returned.
func GetExitCode(err error) (int, error) {
	var exitStatus interface {
		ExitStatus() (int, error)
	}

	if errors.As(err, &exitStatus) {
		return exitStatus.ExitStatus()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	var multiErr *errors.MultiError
	if errors.As(err, &multiErr) {
		for _, err := range multiErr.WrappedErrors() {
			if exitCode, exitCodeErr := GetExitCode(err); exitCodeErr == nil {
				return exitCode, nil
			}
		}
	}

	return 0, err
}

// IsCommandExecutable returns true if a command can be executed without errors.
func IsCommandExecutable(command string, args ...string) bool {
	cmd := exec.Command(command, args...)

	return cmd.Run() == nil
}
