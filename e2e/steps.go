package e2e

import (
	"github.com/cucumber/godog"

	"github.com/smakki/FinanceManager-sub000/e2e/steps/catalog"
	"github.com/smakki/FinanceManager-sub000/e2e/steps/common"
	"github.com/smakki/FinanceManager-sub000/e2e/steps/spending"
)

// RegisterSteps wires all step definitions from the modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	catalog.RegisterSteps(ctx, tc)
	spending.RegisterSteps(ctx, tc)
}
