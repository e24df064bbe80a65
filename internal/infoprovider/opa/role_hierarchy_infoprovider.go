package opa

import (
	"fmt"

	"github.com/restaurantchain/order-backend/internal/infoprovider"
)

// DefaultHierarchy mirrors the role inheritance of the casbin policies
var DefaultHierarchy = map[string][]string{
	"admin":    {"camarero"},
	"camarero": {"cliente"},
	"cliente":  nil,
}

type roleHierarchyInfoProvider struct {
	inherits map[string][]string
}

// GetRoles returns the role itself followed by every role it inherits, transitively.
// It returns an error if the role is unknown.
func (p *roleHierarchyInfoProvider) GetRoles(role string) ([]string, error) {
	if _, ok := p.inherits[role]; !ok {
		return nil, fmt.Errorf("role %s not found", role)
	}

	roles := []string{}
	seen := map[string]bool{}
	queue := []string{role}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		if seen[r] {
			continue
		}
		seen[r] = true
		roles = append(roles, r)
		queue = append(queue, p.inherits[r]...)
	}

	return roles, nil
}

// NewRoleHierarchyInfoProvider initializes a new InfoProvider from a map of roles to the roles they inherit.
func NewRoleHierarchyInfoProvider(inherits map[string][]string) infoprovider.InfoProvider {
	return &roleHierarchyInfoProvider{inherits: inherits}
}
