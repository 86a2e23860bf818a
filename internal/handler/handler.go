// Package handler maps Terraform resource types to the inventory group they belong to and to the
// attributes that identify them.
package handler

import (
	"maps"
	"slices"
	"sync"

	"github.com/gruntwork-io/casper/internal/tfstate"
)

// Rule tells how to identify resources of one type.
type Rule struct {
	// Group is the inventory key the identifier is stored under. It defaults to the resource type.
	Group string
	// Keys are attribute keys tried in order. The first one present with a non-empty value is used.
	Keys []string
}

// Extract returns the identifier of res.
func (rule Rule) Extract(res *tfstate.Resource) (string, bool) {
	for _, key := range rule.Keys {
		if val, ok := res.Lookup(key); ok && val != "" {
			return val, true
		}
	}

	return "", false
}

// Registry holds a Rule per resource type. It is safe for concurrent use.
type Registry struct {
	rules map[string]Rule
	mu    sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// DefaultRegistry returns a registry with the rules for the supported AWS resource types.
func DefaultRegistry() *Registry {
	return NewRegistry().
		Register("aws_instance", Rule{Keys: []string{"id"}}).
		Register("aws_spot_instance_request", Rule{Group: "aws_instance", Keys: []string{"spot_instance_id"}}).
		Register("aws_lb", Rule{Group: "aws_alb", Keys: []string{"name"}}).
		Register("aws_alb", Rule{Keys: []string{"name"}}).
		Register("aws_elb", Rule{Keys: []string{"name"}}).
		Register("aws_iam_user", Rule{Keys: []string{"name", "id"}}).
		Register("aws_iam_role", Rule{Keys: []string{"name", "id"}}).
		Register("aws_iam_group", Rule{Keys: []string{"name", "id"}}).
		Register("aws_s3_bucket", Rule{Keys: []string{"bucket", "id"}}).
		Register("aws_security_group", Rule{Keys: []string{"id"}}).
		Register("aws_autoscaling_group", Rule{Keys: []string{"name", "id"}})
}

// Register adds or replaces the rule for resourceType.
func (registry *Registry) Register(resourceType string, rule Rule) *Registry {
	if rule.Group == "" {
		rule.Group = resourceType
	}

	rule.Keys = slices.Clone(rule.Keys)

	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.rules[resourceType] = rule

	return registry
}

// Resolve returns the rule for resourceType.
func (registry *Registry) Resolve(resourceType string) (Rule, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	rule, ok := registry.rules[resourceType]

	return rule, ok
}

// Types returns the registered resource types, sorted.
func (registry *Registry) Types() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	return slices.Sorted(maps.Keys(registry.rules))
}

// Groups returns the distinct groups of all rules, sorted.
func (registry *Registry) Groups() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	groups := make([]string, 0, len(registry.rules))
	for _, rule := range registry.rules {
		groups = append(groups, rule.Group)
	}

	slices.Sort(groups)

	return slices.Compact(groups)
}
