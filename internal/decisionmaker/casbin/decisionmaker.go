package casbin

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"

	"github.com/restaurantchain/order-backend/internal/decisionmaker"
)

// Model matches roles through the g hierarchy, paths with keyMatch2 patterns
// and methods with a regular expression.
const Model = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies are the permissions granted to each role on a fresh store
var DefaultPolicies = [][]string{
	{"cliente", "/camareros", "^get$"},
	{"cliente", "/camareros/:id", "^get$"},
	{"cliente", "/establecimientos", "^get$"},
	{"cliente", "/establecimientos/:id", "^get$"},
	{"cliente", "/productos", "^get$"},
	{"cliente", "/productos/:id", "^get$"},
	{"cliente", "/categorias", "^get$"},
	{"cliente", "/categorias/:id", "^get$"},
	{"camarero", "/clientes", "^get$"},
	{"camarero", "/clientes/:id", "^get$"},
	{"camarero", "/pedidos", "^(get|post)$"},
	{"camarero", "/pedidos/:id", "^(get|put|patch)$"},
	{"camarero", "/pedidos/:id/:transition", "^post$"},
	{"camarero", "/orders", "^(get|post)$"},
	{"camarero", "/orders/:id", "^(get|put|patch)$"},
	{"camarero", "/orders/:id/:transition", "^post$"},
	{"admin", "/*", ".*"},
}

// DefaultGroupings make each role inherit the permissions of the next
var DefaultGroupings = [][]string{
	{"admin", "camarero"},
	{"camarero", "cliente"},
}

// Option adjusts the enforcer once it has loaded the stored policies
type Option func(casbin.IEnforcer) error

// WithPolicies adds the given policies and groupings unless the store already holds them.
func WithPolicies(policies, groupings [][]string) Option {
	return func(e casbin.IEnforcer) error {
		if _, err := e.AddPoliciesEx(policies); err != nil {
			return fmt.Errorf("failed to add policies: %w", err)
		}
		if _, err := e.AddGroupingPoliciesEx(groupings); err != nil {
			return fmt.Errorf("failed to add groupings: %w", err)
		}
		return nil
	}
}

type decisionMaker struct {
	enforcer casbin.IEnforcer
}

// MakeDecision evaluates a decision request based on provided subject, resource, and action using the enforcer.
// It first loads the latest policy, so policies edited in the store apply without a restart.
func (d *decisionMaker) MakeDecision(_ context.Context, req *decisionmaker.DecisionRequest) (bool, error) {
	err := d.enforcer.LoadPolicy()
	if err != nil {
		return false, err
	}

	return d.enforcer.Enforce(req.Subject, req.Resource, req.Action)
}

// NewDecisionMaker creates a new instance of DecisionMaker using the provided Casbin configuration and policy repository adapter.
// It returns a DecisionMaker for processing decision requests, or an error if model creation or enforcer initialization fails.
func NewDecisionMaker(config string, policyRepo persist.Adapter, opts ...Option) (decisionmaker.DecisionMaker, error) {
	m, err := model.NewModelFromString(config)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m, policyRepo)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(enforcer); err != nil {
			return nil, err
		}
	}

	return &decisionMaker{enforcer: enforcer}, nil
}
