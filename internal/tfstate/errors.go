package tfstate

import "fmt"

// InvalidAddressError is returned for a line that is not a resource address.
type InvalidAddressError struct {
	Address string
}

func (err InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid resource address %q", err.Address)
}
