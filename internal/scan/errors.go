package scan

import (
	"fmt"
	"strings"
)

// UnsupportedServiceError is returned by Lookup for an unknown service name.
type UnsupportedServiceError struct {
	Name string
}

func (err UnsupportedServiceError) Error() string {
	return fmt.Sprintf("service %q is not supported, supported services: %s", err.Name, strings.Join(SupportedServices(), ", "))
}
