package tfstate

import (
	"strings"
)

// ParseList parses the output of `terraform state list` into addresses, keeping their order.
// Blank output yields no addresses. Lines that are not addresses are skipped.
func ParseList(data string) []Address {
	var addrs []Address

	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		addr, err := ParseAddress(line)
		if err != nil {
			continue
		}

		addrs = append(addrs, addr)
	}

	return addrs
}
