package gateway

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/shell"
	"github.com/gruntwork-io/casper/options"
	"github.com/gruntwork-io/casper/pkg/log"
	"github.com/mattn/go-shellwords"
	"golang.org/x/exp/maps"
)

const (
	stateCommand   = "state"
	listCommand    = "list"
	showCommand    = "show"
	versionCommand = "version"
	noColorFlag    = "-no-color"

	tfInAutomationEnv = "TF_IN_AUTOMATION"
	awsProfileEnv     = "AWS_PROFILE"
)

// Terraform runs the terraform (or OpenTofu) binary.
type Terraform struct {
	logger  log.Logger
	runOpts *shell.RunOptions
	command string
	// prefix holds the words following command in a wrapped tf path, such as `exec ops -- terraform`.
	prefix []string
}

// NewTerraform returns a Gateway running opts.TFPath. The path is split like a shell would, so a
// wrapper such as `aws-vault exec ops -- terraform` can be used.
func NewTerraform(opts *options.CasperOptions) (*Terraform, error) {
	words, err := shellwords.NewParser().Parse(opts.TFPath)
	if err != nil {
		return nil, errors.New(InvalidTFPathError{TFPath: opts.TFPath, Err: err})
	}

	if len(words) == 0 {
		return nil, errors.New(InvalidTFPathError{TFPath: opts.TFPath})
	}

	env := map[string]string{tfInAutomationEnv: "1"}

	if opts.Profile != "" {
		env[awsProfileEnv] = opts.Profile
	}

	maps.Copy(env, opts.Env)

	return &Terraform{
		logger:  opts.Logger,
		command: words[0],
		prefix:  words[1:],
		runOpts: &shell.RunOptions{
			Env:        env,
			WorkingDir: opts.WorkingDir,
		},
	}, nil
}

// Verify checks that `terraform version` runs.
func (tf *Terraform) Verify() error {
	if !shell.IsCommandExecutable(tf.command, append(slices.Clone(tf.prefix), versionCommand)...) {
		return errors.New(TerraformNotFoundError{Command: tf.command})
	}

	return nil
}

// Args returns the command line arguments for op.
func Args(op Operation, args ...string) ([]string, error) {
	switch op {
	case List:
		return []string{stateCommand, listCommand}, nil
	case Show:
		if len(args) != 1 {
			return nil, errors.Errorf("%s expects exactly one address, got %d", op, len(args))
		}

		return []string{stateCommand, showCommand, noColorFlag, args[0]}, nil
	}

	return nil, errors.New(UnsupportedOperationError{Operation: op})
}

// Invoke runs the state command for op in dir.
func (tf *Terraform) Invoke(ctx context.Context, dir string, op Operation, args ...string) Result {
	cmdArgs, err := Args(op, args...)
	if err != nil {
		return Failed(err)
	}

	if !filepath.IsAbs(dir) && tf.runOpts.WorkingDir != "" {
		dir = filepath.Join(tf.runOpts.WorkingDir, dir)
	}

	cmdArgs = append(slices.Clone(tf.prefix), cmdArgs...)

	output, err := shell.RunCommandWithOutput(ctx, tf.logger, tf.runOpts, dir, tf.command, cmdArgs...)

	var data string
	if output != nil {
		data = log.RemoveAllASCISeq(output.Stdout.String())
	}

	if err != nil {
		return Result{Err: err, Data: data}
	}

	return Succeeded(data)
}
