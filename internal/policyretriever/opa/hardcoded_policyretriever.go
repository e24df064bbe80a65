package opa

import (
	_ "embed"

	"github.com/restaurantchain/order-backend/internal/policyretriever"
)

// DefaultPolicy grants the cliente, camarero and admin roles their access to the API.
//
//go:embed policy.rego
var DefaultPolicy string

// DefaultQuery evaluates DefaultPolicy
const DefaultQuery = "data.pedidos.authz.allow"

type hardcodedPolicyRetriever struct {
	policy string
}

// GetPolicy retrieves the hardcoded policy as a string and returns it along with any potential error.
func (p *hardcodedPolicyRetriever) GetPolicy() (string, error) {
	return p.policy, nil
}

// NewHardcodedPolicyRetriever creates a PolicyRetriever with a provided hardcoded policy string.
func NewHardcodedPolicyRetriever(policy string) policyretriever.PolicyRetriever {
	return &hardcodedPolicyRetriever{
		policy: policy,
	}
}
