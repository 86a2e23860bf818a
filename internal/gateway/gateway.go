// Package gateway runs the Terraform state commands casper needs against a directory.
package gateway

import (
	"context"
)

// Operation is a state command understood by a Gateway.
type Operation string

const (
	// List lists the resource addresses in the state.
	List Operation = "list"
	// Show prints the attributes of one address, passed as the only argument.
	Show Operation = "show"
)

// Result is what a gateway call produced. Success is false when the command could not run
// or exited with an error; Data may still hold partial output.
type Result struct {
	Err     error
	Data    string
	Success bool
}

// Gateway invokes a state operation in a directory.
type Gateway interface {
	Invoke(ctx context.Context, dir string, op Operation, args ...string) Result
}

// Func adapts an ordinary function to a Gateway.
type Func func(ctx context.Context, dir string, op Operation, args ...string) Result

// Invoke calls fn.
func (fn Func) Invoke(ctx context.Context, dir string, op Operation, args ...string) Result {
	return fn(ctx, dir, op, args...)
}

// Succeeded returns a successful Result with data.
func Succeeded(data string) Result {
	return Result{Success: true, Data: data}
}

// Failed returns an unsuccessful Result.
func Failed(err error) Result {
	return Result{Err: err}
}
