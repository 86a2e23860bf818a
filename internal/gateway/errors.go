package gateway

import "fmt"

// UnsupportedOperationError is returned for an Operation a gateway does not know.
type UnsupportedOperationError struct {
	Operation Operation
}

func (err UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported state operation %q", string(err.Operation))
}

// InvalidTFPathError is returned when the tf path cannot be split into a command.
type InvalidTFPathError struct {
	Err    error
	TFPath string
}

func (err InvalidTFPathError) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("invalid tf path %q: no command", err.TFPath)
	}

	return fmt.Sprintf("invalid tf path %q: %v", err.TFPath, err.Err)
}

func (err InvalidTFPathError) Unwrap() error {
	return err.Err
}

// TerraformNotFoundError is returned when the terraform binary cannot be run.
type TerraformNotFoundError struct {
	Command string
}

func (err TerraformNotFoundError) Error() string {
	return fmt.Sprintf("unable to run %q, install terraform or point --tf-path to it", err.Command)
}
