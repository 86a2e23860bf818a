package inventory

import (
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/filter"
	"github.com/gruntwork-io/casper/internal/tfstate"
)

// Outcome is what happened to one address during a build.
type Outcome int

const (
	// Identified addresses contributed an identifier to the State.
	Identified Outcome = iota
	// Unsupported addresses have a type without a handler rule.
	Unsupported
	// Removed addresses were listed but are gone from the state.
	Removed
	// Unidentified addresses have a rule but none of its keys were present.
	Unidentified
	// Excluded addresses matched an exclusion and were not shown.
	Excluded
)

var outcomeNames = map[Outcome]string{
	Identified:   "identified",
	Unsupported:  "unsupported",
	Removed:      "removed",
	Unidentified: "unidentified",
	Excluded:     "excluded",
}

func (outcome Outcome) String() string {
	if name, ok := outcomeNames[outcome]; ok {
		return name
	}

	return "unknown"
}

// Record is the result of inspecting one address.
type Record struct {
	Directory  string
	Group      string
	Identifier string
	Address    tfstate.Address
	Outcome    Outcome
}

// ExcludeRules holds the user supplied exclusions.
// Directory entries match a directory base name. Resource entries match the raw address,
// `type.name`, the bare type or the bare name. Entries may be glob patterns.
type ExcludeRules struct {
	Directories []string
	Resources   []string
}

// Validate returns an error naming every entry that is not a valid glob.
func (rules ExcludeRules) Validate() error {
	var errs *errors.MultiError

	for _, pattern := range filter.NewPatterns(rules.Directories, '/') {
		if err := pattern.Validate(); err != nil {
			errs = errs.Append(err)
		}
	}

	for _, pattern := range filter.NewPatterns(rules.Resources, '.') {
		if err := pattern.Validate(); err != nil {
			errs = errs.Append(err)
		}
	}

	return errs.ErrorOrNil()
}

// AlwaysExcludedTypes are resource types that never describe managed infrastructure.
var AlwaysExcludedTypes = []string{"terraform_remote_state"}

type resourceExcluder struct {
	patterns filter.Patterns
}

func newResourceExcluder(rules ExcludeRules) *resourceExcluder {
	return &resourceExcluder{patterns: filter.NewPatterns(rules.Resources, '.')}
}

func (excluder *resourceExcluder) isExcluded(addr tfstate.Address) bool {
	if addr.Mode == tfstate.DataMode {
		return true
	}

	for _, resourceType := range AlwaysExcludedTypes {
		if addr.Type == resourceType {
			return true
		}
	}

	return excluder.patterns.MatchAny(addr.Raw, addr.TypeName(), addr.Type, addr.Name)
}

// Summary counts what a build did.
type Summary struct {
	// States is the number of directories whose state was listed successfully, even when empty.
	States int
	// Resources is the number of identifiers added to the State.
	Resources int
	// Groups is the number of distinct groups created.
	Groups int

	Removed      []Record
	Unsupported  []Record
	Unidentified []Record
	Excluded     []Record
}

func (summary *Summary) add(record Record) {
	switch record.Outcome {
	case Identified:
		summary.Resources++
	case Removed:
		summary.Removed = append(summary.Removed, record)
	case Unsupported:
		summary.Unsupported = append(summary.Unsupported, record)
	case Unidentified:
		summary.Unidentified = append(summary.Unidentified, record)
	case Excluded:
		summary.Excluded = append(summary.Excluded, record)
	}
}
