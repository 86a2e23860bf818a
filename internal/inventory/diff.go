package inventory

import (
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/wI2L/jsondiff"
)

// Diff returns the JSON patch (RFC 6902) turning previous into current. A nil State is empty.
func Diff(previous, current *State) (jsondiff.Patch, error) {
	patch, err := jsondiff.Compare(previous.Map(), current.Map())
	if err != nil {
		return nil, errors.New(err)
	}

	return patch, nil
}
