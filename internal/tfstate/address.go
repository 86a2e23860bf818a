// Package tfstate parses the text printed by `terraform state list` and `terraform state show`.
//
// Only the parts needed to build an inventory are understood: resource addresses from the list
// output and top-level or nested attributes from the show output. Everything else is skipped.
package tfstate

import (
	"strings"
)

// Mode distinguishes managed resources from data sources.
type Mode string

const (
	ManagedMode Mode = "managed"
	DataMode    Mode = "data"

	moduleKeyword = "module"
	dataKeyword   = "data"
)

// Address is a single resource address as printed by `terraform state list`, for example
// `module.vpc.aws_subnet.private[0]`.
type Address struct {
	// Raw is the address exactly as listed.
	Raw string
	// Module is the module path prefix, empty for resources in the root module.
	Module string
	Mode   Mode
	Type   string
	// Name includes the instance key, e.g. `web[0]` or `web["blue"]`.
	Name string
}

// ParseAddress parses one line of `terraform state list` output.
func ParseAddress(raw string) (Address, error) {
	raw = strings.TrimSpace(raw)

	segments, err := splitAddress(raw)
	if err != nil {
		return Address{}, err
	}

	addr := Address{Raw: raw, Mode: ManagedMode}

	var modules []string

	for len(segments) > 2 && segments[0] == moduleKeyword {
		modules = append(modules, moduleKeyword+"."+segments[1])
		segments = segments[2:]
	}

	addr.Module = strings.Join(modules, ".")

	if len(segments) == 3 && segments[0] == dataKeyword {
		addr.Mode = DataMode
		segments = segments[1:]
	}

	if len(segments) != 2 || segments[0] == moduleKeyword || segments[0] == dataKeyword {
		return Address{}, InvalidAddressError{Address: raw}
	}

	addr.Type, addr.Name = segments[0], segments[1]

	if addr.Type == "" || addr.Name == "" || strings.ContainsAny(addr.Type, `[]"`) {
		return Address{}, InvalidAddressError{Address: raw}
	}

	return addr, nil
}

// String returns the address as it was listed.
func (addr Address) String() string {
	if addr.Raw != "" {
		return addr.Raw
	}

	var parts []string

	if addr.Module != "" {
		parts = append(parts, addr.Module)
	}

	if addr.Mode == DataMode {
		parts = append(parts, dataKeyword)
	}

	parts = append(parts, addr.Type, addr.Name)

	return strings.Join(parts, ".")
}

// TypeName returns `type.name` without the module path or data prefix.
func (addr Address) TypeName() string {
	return addr.Type + "." + addr.Name
}

// splitAddress splits on dots that are not inside an index expression, so that
// `aws_instance.web["a.b"]` yields two segments.
func splitAddress(raw string) ([]string, error) {
	var (
		segments []string
		current  strings.Builder
		depth    int
		inQuote  bool
		escaped  bool
	)

	for _, r := range raw {
		switch {
		case escaped:
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			depth++
		case r == ']':
			depth--
			if depth < 0 {
				return nil, InvalidAddressError{Address: raw}
			}
		case r == '.' && depth == 0:
			segments = append(segments, current.String())
			current.Reset()

			continue
		}

		current.WriteRune(r)
	}

	if depth != 0 || inQuote {
		return nil, InvalidAddressError{Address: raw}
	}

	return append(segments, current.String()), nil
}
