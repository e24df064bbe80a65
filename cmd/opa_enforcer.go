package main

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/restaurantchain/order-backend/internal/config"
	"github.com/restaurantchain/order-backend/internal/enforcer"

	pdp "github.com/restaurantchain/order-backend/internal/decisionmaker/opa"
	pip "github.com/restaurantchain/order-backend/internal/infoprovider/opa"
	prp "github.com/restaurantchain/order-backend/internal/policyretriever/opa"
)

// newEnforcer initializes the enforcer for the configured authorization engine.
func newEnforcer(engine string, db *gorm.DB, logger *slog.Logger) (enforcer.Enforcer, error) {
	switch engine {
	case config.EngineCasbin:
		return newCasbinEnforcer(db, logger)
	case config.EngineOPA:
		return newOPAEnforcer(logger), nil
	default:
		return nil, fmt.Errorf("unknown authorization engine %q", engine)
	}
}

// newOPAEnforcer evaluates the embedded Rego policy against the caller's role and the roles it inherits.
func newOPAEnforcer(logger *slog.Logger) enforcer.Enforcer {
	logger.Info("initializing enforcer with OPA")

	decisionMaker := pdp.NewDecisionMaker(
		prp.NewHardcodedPolicyRetriever(prp.DefaultPolicy),
		pip.NewRoleHierarchyInfoProvider(pip.DefaultHierarchy),
		prp.DefaultQuery,
	)

	return enforcer.NewEnforcer(decisionMaker)
}
