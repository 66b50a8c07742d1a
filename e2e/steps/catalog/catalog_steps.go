// Package catalog holds step definitions for catalog reference data: holders,
// currencies, account types, accounts and categories.
package catalog

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the suite context these steps use.
type TestContext interface {
	CatalogPOST(path string, body any) error
	CatalogGET(path string) error
	CatalogDELETE(path string) error
	LastStatus() int
	LastBody() []byte
	ResponseField(name string) (any, error)
	Unique(name string) string
	Nonce() int64
	SetHolder(holderID string)
	Holder() string
	SetCurrency(currencyID string)
	Currency() string
	SetAccountType(typeID string)
	AccountType() string
	SetAccount(name, accountID string)
	Account(name string) (string, error)
	SetCategory(name, categoryID string)
	Category(name string) (string, error)
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &catalogSteps{tc: tc}

	ctx.Step(`^a registry holder exists$`, steps.holderExists)
	ctx.Step(`^a currency and an account type exist$`, steps.currencyAndTypeExist)
	ctx.Step(`^an account "([^"]*)" marked default$`, steps.defaultAccountExists)
	ctx.Step(`^an account "([^"]*)"$`, steps.accountExists)
	ctx.Step(`^I create an account "([^"]*)" marked default$`, steps.defaultAccountExists)
	ctx.Step(`^a category "([^"]*)" exists$`, steps.categoryExists)
	ctx.Step(`^account "([^"]*)" is the default$`, steps.accountIsDefault)
	ctx.Step(`^account "([^"]*)" is not the default$`, steps.accountIsNotDefault)
	ctx.Step(`^I soft delete account "([^"]*)"$`, steps.softDeleteAccount)
	ctx.Step(`^I can soft delete account "([^"]*)"$`, steps.canSoftDeleteAccount)
	ctx.Step(`^I unset the default on "([^"]*)" replacing it with "([^"]*)"$`, steps.unsetDefault)
}

type catalogSteps struct {
	tc TestContext
}

// created posts the payload and returns the id field of the 201 response.
func (s *catalogSteps) created(path string, body any) (string, error) {
	if err := s.tc.CatalogPOST(path, body); err != nil {
		return "", err
	}
	if s.tc.LastStatus() != 201 {
		return "", fmt.Errorf("POST %s: expected 201, got %d (body: %s)", path, s.tc.LastStatus(), s.tc.LastBody())
	}
	value, err := s.tc.ResponseField("id")
	if err != nil {
		return "", err
	}
	created, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("POST %s: id field is %T, want string", path, value)
	}
	return created, nil
}

func (s *catalogSteps) holderExists(ctx context.Context) error {
	holderID, err := s.created("/api/v1/registry-holders", map[string]any{
		"name":       s.tc.Unique("holder"),
		"telegramId": s.tc.Nonce(),
	})
	if err != nil {
		return err
	}
	s.tc.SetHolder(holderID)
	return nil
}

func (s *catalogSteps) currencyAndTypeExist(ctx context.Context) error {
	nonce := s.tc.Nonce()
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charCode := string([]byte{
		letters[nonce%26],
		letters[(nonce/26)%26],
		letters[(nonce/676)%26],
	})

	currencyID, err := s.created("/api/v1/currencies", map[string]any{
		"name":     s.tc.Unique("currency"),
		"charCode": charCode,
		"numCode":  fmt.Sprintf("%03d", nonce%1000),
	})
	if err != nil {
		return err
	}
	s.tc.SetCurrency(currencyID)

	typeID, err := s.created("/api/v1/account-types", map[string]any{
		"name": s.tc.Unique("type"),
		"code": s.tc.Unique("cash"),
	})
	if err != nil {
		return err
	}
	s.tc.SetAccountType(typeID)
	return nil
}

func (s *catalogSteps) createAccount(name string, isDefault bool) error {
	accountID, err := s.created("/api/v1/accounts", map[string]any{
		"registryHolderId":   s.tc.Holder(),
		"accountTypeId":      s.tc.AccountType(),
		"currencyId":         s.tc.Currency(),
		"name":               s.tc.Unique(name),
		"isIncludeInBalance": true,
		"isDefault":          isDefault,
	})
	if err != nil {
		return err
	}
	s.tc.SetAccount(name, accountID)
	return nil
}

func (s *catalogSteps) defaultAccountExists(ctx context.Context, name string) error {
	return s.createAccount(name, true)
}

func (s *catalogSteps) accountExists(ctx context.Context, name string) error {
	return s.createAccount(name, false)
}

func (s *catalogSteps) categoryExists(ctx context.Context, name string) error {
	categoryID, err := s.created("/api/v1/categories", map[string]any{
		"registryHolderId": s.tc.Holder(),
		"name":             s.tc.Unique(name),
		"isExpense":        true,
	})
	if err != nil {
		return err
	}
	s.tc.SetCategory(name, categoryID)
	return nil
}

func (s *catalogSteps) accountDefaultFlag(name string) (bool, error) {
	accountID, err := s.tc.Account(name)
	if err != nil {
		return false, err
	}
	if err := s.tc.CatalogGET("/api/v1/accounts/" + accountID); err != nil {
		return false, err
	}
	if s.tc.LastStatus() != 200 {
		return false, fmt.Errorf("GET account %s: expected 200, got %d", accountID, s.tc.LastStatus())
	}
	value, err := s.tc.ResponseField("isDefault")
	if err != nil {
		return false, err
	}
	flag, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("isDefault is %T, want bool", value)
	}
	return flag, nil
}

func (s *catalogSteps) accountIsDefault(ctx context.Context, name string) error {
	flag, err := s.accountDefaultFlag(name)
	if err != nil {
		return err
	}
	if !flag {
		return fmt.Errorf("account %q is not the default", name)
	}
	return nil
}

func (s *catalogSteps) accountIsNotDefault(ctx context.Context, name string) error {
	flag, err := s.accountDefaultFlag(name)
	if err != nil {
		return err
	}
	if flag {
		return fmt.Errorf("account %q is still the default", name)
	}
	return nil
}

func (s *catalogSteps) softDeleteAccount(ctx context.Context, name string) error {
	accountID, err := s.tc.Account(name)
	if err != nil {
		return err
	}
	return s.tc.CatalogDELETE("/api/v1/accounts/" + accountID + "/soft")
}

func (s *catalogSteps) canSoftDeleteAccount(ctx context.Context, name string) error {
	if err := s.softDeleteAccount(ctx, name); err != nil {
		return err
	}
	if s.tc.LastStatus() != 200 {
		return fmt.Errorf("soft delete of %q refused: %d (body: %s)", name, s.tc.LastStatus(), s.tc.LastBody())
	}
	return nil
}

func (s *catalogSteps) unsetDefault(ctx context.Context, name, replacement string) error {
	accountID, err := s.tc.Account(name)
	if err != nil {
		return err
	}
	replacementID, err := s.tc.Account(replacement)
	if err != nil {
		return err
	}
	return s.tc.CatalogPOST("/api/v1/accounts/"+accountID+"/default/unset", map[string]any{
		"replacementAccountId": replacementID,
	})
}
