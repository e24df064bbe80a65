package main

import (
	"log/slog"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/restaurantchain/order-backend/internal/decisionmaker/casbin"
	"github.com/restaurantchain/order-backend/internal/enforcer"
)

// newCasbinEnforcer keeps the casbin rules in the order database, seeding the default
// role permissions the first time.
func newCasbinEnforcer(db *gorm.DB, logger *slog.Logger) (enforcer.Enforcer, error) {
	logger.Info("initializing enforcer with Casbin")

	policyRetriever, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}

	decisionMaker, err := casbin.NewDecisionMaker(
		casbin.Model,
		policyRetriever,
		casbin.WithPolicies(casbin.DefaultPolicies, casbin.DefaultGroupings),
	)
	if err != nil {
		return nil, err
	}

	return enforcer.NewEnforcer(decisionMaker), nil
}
