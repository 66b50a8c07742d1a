package store

import (
	"context"
	"time"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	accounttypestore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/accounttype"
	bankstore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/bank"
	countrystore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/country"
	currencystore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/currency"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
)

// SeedReferenceData loads a minimal reference set into the in-memory stores
// for local runs without a database.
func SeedReferenceData(countries *countrystore.InMemory, banks *bankstore.InMemory, currencies *currencystore.InMemory, types *accounttypestore.InMemory) {
	ctx := context.Background()
	now := time.Now().UTC()

	ru := &models.Country{ID: id.NewCountryID(), Name: "Russia", CreatedAt: now, UpdatedAt: now}
	_ = countries.Create(ctx, ru)

	_ = banks.Create(ctx, &models.Bank{
		ID: id.NewBankID(), CountryID: ru.ID, Name: "Sberbank", CreatedAt: now, UpdatedAt: now,
	})
	_ = banks.Create(ctx, &models.Bank{
		ID: id.NewBankID(), CountryID: ru.ID, Name: "Tinkoff", CreatedAt: now, UpdatedAt: now,
	})

	_ = currencies.Create(ctx, &models.Currency{
		ID: id.NewCurrencyID(), Name: "Russian Ruble", CharCode: "RUB", NumCode: "643", CreatedAt: now, UpdatedAt: now,
	})
	_ = currencies.Create(ctx, &models.Currency{
		ID: id.NewCurrencyID(), Name: "US Dollar", CharCode: "USD", NumCode: "840", CreatedAt: now, UpdatedAt: now,
	})

	_ = types.Create(ctx, &models.AccountType{
		ID: id.NewAccountTypeID(), Name: "Debit card", Code: "debit", CreatedAt: now, UpdatedAt: now,
	})
	_ = types.Create(ctx, &models.AccountType{
		ID: id.NewAccountTypeID(), Name: "Credit card", Code: "credit", CreatedAt: now, UpdatedAt: now,
	})
	_ = types.Create(ctx, &models.AccountType{
		ID: id.NewAccountTypeID(), Name: "Cash", Code: "cash", CreatedAt: now, UpdatedAt: now,
	})
}
