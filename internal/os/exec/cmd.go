// Package exec runs external commands. It wraps the exec.Cmd type with graceful shutdown on context cancellation.
package exec

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/os/signal"
	"github.com/gruntwork-io/casper/pkg/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultGracefulShutdownDelay is how long a canceled command may take to exit after it was interrupted,
// before it is killed.
const DefaultGracefulShutdownDelay = 15 * time.Second

// Cmd is a command type.
type Cmd struct {
	*exec.Cmd

	logger   log.Logger
	filename string

	interruptSignal os.Signal
}

// Command returns the `Cmd` struct to execute the named program with the given arguments.
// When ctx is canceled the process receives the signal that canceled it, or an interrupt,
// and is killed if it does not exit within the graceful shutdown delay.
func Command(ctx context.Context, name string, args ...string) *Cmd {
	cmd := &Cmd{
		Cmd:             exec.CommandContext(ctx, name, args...),
		logger:          log.Default(),
		filename:        filepath.Base(name),
		interruptSignal: signal.InterruptSignal,
	}

	cmd.WaitDelay = DefaultGracefulShutdownDelay
	cmd.Cancel = func() error {
		sig := cmd.interruptSignal

		if cause := new(signal.ContextCanceledError); errors.As(context.Cause(ctx), &cause) && cause.Signal != nil {
			sig = cause.Signal
		}

		return cmd.SendSignal(sig)
	}

	return cmd
}

// Configure sets options to the `Cmd`.
func (cmd *Cmd) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(cmd)
	}
}

// Start starts the specified command but does not wait for it to complete.
func (cmd *Cmd) Start() error {
	if err := cmd.Cmd.Start(); err != nil {
		return errors.New(err)
	}

	return nil
}

// Run starts the specified command and waits for it to complete.
func (cmd *Cmd) Run() error {
	if err := cmd.Start(); err != nil {
		return err
	}

	return cmd.Wait()
}

// SendSignal sends the given `sig` to the executed command.
func (cmd *Cmd) SendSignal(sig os.Signal) error {
	if cmd.Process == nil {
		return nil
	}

	cmd.logger.Debugf("%s signal is forwarded to %s", cases.Title(language.English).String(sig.String()), cmd.filename)

	if err := cmd.Process.Signal(sig); err != nil {
		cmd.logger.Debugf("Failed to forward signal %s to %s: %v", sig, cmd.filename, err)

		return err
	}

	return nil
}

// Option is a functional option for `Cmd`.
type Option func(*Cmd)

// WithLogger sets the logger used for signal messages.
func WithLogger(l log.Logger) Option {
	return func(cmd *Cmd) {
		cmd.logger = l
	}
}

// WithEnv adds the given variables to the environment inherited from the current process.
func WithEnv(env map[string]string) Option {
	return func(cmd *Cmd) {
		if len(env) == 0 {
			return
		}

		keys := make([]string, 0, len(env))
		for key := range env {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		cmd.Env = os.Environ()
		for _, key := range keys {
			cmd.Env = append(cmd.Env, key+"="+env[key])
		}
	}
}

// WithGracefulShutdownDelay sets how long a canceled command may run after the interrupt signal.
func WithGracefulShutdownDelay(delay time.Duration) Option {
	return func(cmd *Cmd) {
		cmd.WaitDelay = delay
	}
}
