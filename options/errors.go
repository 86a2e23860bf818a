package options

import "fmt"

// InvalidOptionError is returned when an option value cannot be used.
type InvalidOptionError struct {
	Value  any
	Name   string
	Reason string
}

func (err InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid value %v for option %q: %s", err.Value, err.Name, err.Reason)
}
