// Package common holds step definitions shared by every feature: health
// probes and generic response assertions.
package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the suite context these steps use.
type TestContext interface {
	CatalogGET(path string) error
	TransactionsGET(path string) error
	LastStatus() int
	LastBody() []byte
	ResponseField(name string) (any, error)
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the catalog service is reachable$`, steps.catalogReachable)
	ctx.Step(`^the transactions service is reachable$`, steps.transactionsReachable)
	ctx.Step(`^the response status is (\d+)$`, steps.responseStatusIs)
	ctx.Step(`^the request is refused with status (\d+) and code "([^"]*)"$`, steps.refusedWithStatusAndCode)
	ctx.Step(`^the response field "([^"]*)" equals "([^"]*)"$`, steps.responseFieldEquals)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) catalogReachable(ctx context.Context) error {
	if err := s.tc.CatalogGET("/healthz"); err != nil {
		return err
	}
	return s.responseStatusIs(ctx, 200)
}

func (s *commonSteps) transactionsReachable(ctx context.Context) error {
	if err := s.tc.TransactionsGET("/healthz"); err != nil {
		return err
	}
	return s.responseStatusIs(ctx, 200)
}

func (s *commonSteps) responseStatusIs(ctx context.Context, expected int) error {
	if s.tc.LastStatus() != expected {
		return fmt.Errorf("expected status %d, got %d (body: %s)", expected, s.tc.LastStatus(), s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) refusedWithStatusAndCode(ctx context.Context, status int, code string) error {
	if err := s.responseStatusIs(ctx, status); err != nil {
		return err
	}
	actual, err := s.tc.ResponseField("code")
	if err != nil {
		return err
	}
	if actual != code {
		return fmt.Errorf("expected problem code %q, got %v (body: %s)", code, actual, s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) responseFieldEquals(ctx context.Context, name, expected string) error {
	actual, err := s.tc.ResponseField(name)
	if err != nil {
		return err
	}
	if fmt.Sprintf("%v", actual) != expected {
		return fmt.Errorf("expected field %q to equal %q, got %v", name, expected, actual)
	}
	return nil
}
