package tfstate

import (
	"maps"
	"regexp"
	"strconv"
	"strings"
)

const noInstanceFoundMsg = "No instance found for the given address"

var (
	// headerPattern matches `# aws_instance.web:`
	headerPattern = regexp.MustCompile(`^#\s+(\S+):\s*$`)

	// resourcePattern matches `resource "aws_instance" "web" {` and `data "aws_ami" "ubuntu" {`
	resourcePattern = regexp.MustCompile(`^(resource|data)\s+"([^"]+)"\s+"([^"]+)"\s*\{$`)

	// attributePattern matches `key = value` and `"quoted key" = value`
	attributePattern = regexp.MustCompile(`^("(?:[^"\\]|\\.)*"|[^\s="]+)\s*=\s*(.*)$`)

	// blockPattern matches a nested block opener such as `root_block_device {`
	blockPattern = regexp.MustCompile(`^([A-Za-z0-9_\-]+)\s*\{$`)

	// heredocPattern matches the start of a heredoc value such as `<<-EOT`
	heredocPattern = regexp.MustCompile(`^<<-?([A-Za-z_][A-Za-z0-9_]*)$`)
)

// Resource is the subset of `terraform state show` output needed to identify a resource.
type Resource struct {
	Address Address
	Type    string
	Name    string

	attrs map[string]string
	keys  []string
}

// Lookup returns the attribute stored under key. Nested attributes use dotted keys,
// e.g. `tags.Name` or `root_block_device.volume_size`, list items use their index, e.g.
// `security_groups.0`. When a block repeats, the first occurrence wins.
func (res *Resource) Lookup(key string) (string, bool) {
	if res == nil {
		return "", false
	}

	val, ok := res.attrs[key]

	return val, ok
}

// Keys returns the attribute keys in the order they were printed.
func (res *Resource) Keys() []string {
	if res == nil {
		return nil
	}

	return append([]string(nil), res.keys...)
}

// Attributes returns a copy of all attributes keyed by their dotted path.
func (res *Resource) Attributes() map[string]string {
	attrs := make(map[string]string)

	if res == nil {
		return attrs
	}

	maps.Copy(attrs, res.attrs)

	return attrs
}

// Len returns the number of attributes.
func (res *Resource) Len() int {
	if res == nil {
		return 0
	}

	return len(res.keys)
}

func (res *Resource) set(key, val string) {
	if _, ok := res.attrs[key]; ok {
		return
	}

	res.attrs[key] = val
	res.keys = append(res.keys, key)
}

// IsAbsent reports whether show output says the resource is no longer in the state.
func IsAbsent(data string) bool {
	return strings.TrimSpace(data) == "" || strings.Contains(data, noInstanceFoundMsg)
}

// frame is one open `{ ... }` or `[ ... ]` while reading nested values.
type frame struct {
	path   string
	isList bool
	items  int
}

// ParseShow reads the output of `terraform state show <address>`.
func ParseShow(data string) *Resource {
	res := &Resource{attrs: make(map[string]string)}

	var (
		stack   []*frame
		heredoc string
		docKey  string
		docBody []string
	)

	for _, rawLine := range strings.Split(data, "\n") {
		line := strings.TrimSpace(rawLine)

		if heredoc != "" {
			if line == heredoc {
				res.set(docKey, strings.Join(docBody, "\n"))
				heredoc, docKey, docBody = "", "", nil

				continue
			}

			docBody = append(docBody, strings.TrimRight(rawLine, "\r"))

			continue
		}

		if line == "" {
			continue
		}

		if matches := headerPattern.FindStringSubmatch(line); matches != nil {
			if addr, err := ParseAddress(matches[1]); err == nil {
				res.Address = addr
			}

			continue
		}

		if matches := resourcePattern.FindStringSubmatch(line); matches != nil && len(stack) == 0 {
			res.Type, res.Name = matches[2], matches[3]
			stack = append(stack, &frame{})

			continue
		}

		if strings.HasPrefix(line, "#") {
			// annotations such as `# (3 unchanged attributes hidden)`
			continue
		}

		if isCloser(line) {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

			continue
		}

		var parent *frame
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		if parent != nil && parent.isList {
			key := joinKey(parent.path, strconv.Itoa(parent.items))
			parent.items++

			switch value := strings.TrimSuffix(line, ","); {
			case value == "{":
				stack = append(stack, &frame{path: key})
			case value == "[":
				stack = append(stack, &frame{path: key, isList: true})
			default:
				res.set(key, unquote(value))
			}

			continue
		}

		if matches := attributePattern.FindStringSubmatch(line); matches != nil {
			key := joinKey(parentPath(parent), unquote(matches[1]))
			value := strings.TrimSuffix(strings.TrimSpace(matches[2]), ",")

			switch {
			case value == "{", strings.HasSuffix(value, "("):
				stack = append(stack, &frame{path: key})
			case value == "[":
				stack = append(stack, &frame{path: key, isList: true})
			case heredocPattern.MatchString(value):
				heredoc = heredocPattern.FindStringSubmatch(value)[1]
				docKey = key
			default:
				res.set(key, unquote(value))
			}

			continue
		}

		if matches := blockPattern.FindStringSubmatch(line); matches != nil {
			stack = append(stack, &frame{path: joinKey(parentPath(parent), matches[1])})

			continue
		}

		if line == "{" {
			// object inside a function call such as `jsonencode(`
			stack = append(stack, &frame{path: parentPath(parent)})
		}
	}

	if res.Type == "" {
		res.Type = res.Address.Type
		res.Name = res.Address.Name
	}

	return res
}

func isCloser(line string) bool {
	line = strings.TrimSuffix(line, ",")

	return line == "}" || line == "]" || line == ")"
}

func parentPath(parent *frame) string {
	if parent == nil {
		return ""
	}

	return parent.path
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

func unquote(str string) string {
	if len(str) >= 2 && strings.HasPrefix(str, `"`) && strings.HasSuffix(str, `"`) {
		if unquoted, err := strconv.Unquote(str); err == nil {
			return unquoted
		}

		return str[1 : len(str)-1]
	}

	return str
}
