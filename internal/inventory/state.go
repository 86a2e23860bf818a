package inventory

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/gruntwork-io/casper/internal/errors"
)

// State is the aggregated inventory: resource groups mapped to identifiers.
// Groups keep the order in which they were first seen and identifiers keep discovery order.
// The zero value is an empty State ready to use. A State is not safe for concurrent mutation.
type State struct {
	ids    map[string][]string
	groups []string
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Add appends id to group and reports whether the group was created by this call.
func (state *State) Add(group, id string) bool {
	if state.ids == nil {
		state.ids = make(map[string][]string)
	}

	ids, ok := state.ids[group]
	if !ok {
		state.groups = append(state.groups, group)
	}

	state.ids[group] = append(ids, id)

	return !ok
}

// Groups returns the group names in first-seen order.
func (state *State) Groups() []string {
	if state == nil {
		return nil
	}

	return slices.Clone(state.groups)
}

// Get returns the identifiers of group.
func (state *State) Get(group string) []string {
	if state == nil {
		return nil
	}

	return slices.Clone(state.ids[group])
}

// Has reports whether id is stored under group.
func (state *State) Has(group, id string) bool {
	if state == nil {
		return false
	}

	return slices.Contains(state.ids[group], id)
}

// Len returns the number of groups.
func (state *State) Len() int {
	if state == nil {
		return 0
	}

	return len(state.groups)
}

// Count returns the number of identifiers across all groups.
func (state *State) Count() int {
	var count int

	if state == nil {
		return count
	}

	for _, ids := range state.ids {
		count += len(ids)
	}

	return count
}

// Equal reports whether both states hold the same groups and identifiers in the same order.
func (state *State) Equal(other *State) bool {
	if state.Len() != other.Len() || !slices.Equal(state.Groups(), other.Groups()) {
		return false
	}

	for _, group := range state.Groups() {
		if !slices.Equal(state.ids[group], other.ids[group]) {
			return false
		}
	}

	return true
}

// Map returns a copy of the state as a plain map.
func (state *State) Map() map[string][]string {
	result := make(map[string][]string, state.Len())

	for _, group := range state.Groups() {
		result[group] = state.Get(group)
	}

	return result
}

// MarshalJSON encodes the state as a JSON object with keys in group order.
func (state *State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, group := range state.Groups() {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(group)
		if err != nil {
			return nil, errors.New(err)
		}

		ids := state.ids[group]
		if ids == nil {
			ids = []string{}
		}

		val, err := json.Marshal(ids)
		if err != nil {
			return nil, errors.New(err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string arrays, keeping the key order.
func (state *State) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return errors.New(err)
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("inventory state must be a JSON object, got %v", token)
	}

	decoded := NewState()

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return errors.New(err)
		}

		group, ok := token.(string)
		if !ok {
			return errors.Errorf("unexpected key %v in inventory state", token)
		}

		var ids []string
		if err := decoder.Decode(&ids); err != nil {
			return errors.WithPrefix(err, "decoding group %q", group)
		}

		if _, ok := decoded.ids[group]; !ok {
			decoded.groups = append(decoded.groups, group)
		}

		if decoded.ids == nil {
			decoded.ids = make(map[string][]string)
		}

		decoded.ids[group] = append(decoded.ids[group], ids...)
	}

	if _, err := decoder.Token(); err != nil {
		return errors.New(err)
	}

	*state = *decoded

	return nil
}
