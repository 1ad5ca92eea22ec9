package syncer

import (
	"fmt"
	"sort"
	"strings"
)

// AggregateFetchError reports which resources of an aggregate fetch failed
// and why. The entity store is guaranteed untouched when this is returned.
type AggregateFetchError struct {
	Failures map[string]error
}

func (e *AggregateFetchError) Error() string {
	resources := make([]string, 0, len(e.Failures))
	for resource := range e.Failures {
		resources = append(resources, resource)
	}
	sort.Strings(resources)

	parts := make([]string, 0, len(resources))
	for _, resource := range resources {
		parts = append(parts, fmt.Sprintf("%s: %v", resource, e.Failures[resource]))
	}
	return "bulk fetch failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the underlying causes for errors.Is matching.
func (e *AggregateFetchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}
