package filter

import "fmt"

// InvalidPatternError is returned for an exclusion entry that is not a valid glob.
type InvalidPatternError struct {
	Err     error
	Pattern string
}

func (err InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q: %v", err.Pattern, err.Err)
}

func (err InvalidPatternError) Unwrap() error {
	return err.Err
}
