package enforcer

import (
	"context"
	"strings"

	"github.com/restaurantchain/order-backend/internal/decisionmaker"
)

type Enforcer interface {
	Enforce(ctx context.Context, req *AccessRequest) (bool, error)
}

// AccessRequest describes a request to authorize. Subject is the caller's role.
type AccessRequest struct {
	Subject  string
	Resource string
	Action   string
}

type enforcer struct {
	decisionMaker decisionmaker.DecisionMaker
}

// Enforce normalizes the request to lower case and asks the decision maker.
// Trailing slashes are dropped so /pedidos/ and /pedidos are the same resource.
func (e *enforcer) Enforce(ctx context.Context, req *AccessRequest) (bool, error) {
	resource := strings.ToLower(req.Resource)
	if len(resource) > 1 {
		resource = strings.TrimSuffix(resource, "/")
	}

	return e.decisionMaker.MakeDecision(
		ctx,
		&decisionmaker.DecisionRequest{
			Subject:  strings.ToLower(req.Subject),
			Resource: resource,
			Action:   strings.ToLower(req.Action),
		},
	)
}

func NewEnforcer(decisionMaker decisionmaker.DecisionMaker) Enforcer {
	return &enforcer{decisionMaker: decisionMaker}
}
