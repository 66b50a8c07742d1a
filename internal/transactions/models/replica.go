package models

import (
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
)

// Replica records are denormalized catalog rows kept fresh by the sync job.
// They are read-only for the request path; only the replicator writes them.
// JSON tags match the catalog API so fetched pages decode directly; extra
// catalog fields are ignored.

type HolderReplica struct {
	ID         id.HolderID `json:"id"`
	Name       string      `json:"name"`
	TelegramID int64       `json:"telegramId"`
}

type AccountReplica struct {
	ID               id.AccountID `json:"id"`
	RegistryHolderID id.HolderID  `json:"registryHolderId"`
	Name             string       `json:"name"`
	IsArchived       bool         `json:"isArchived"`
	IsDeleted        bool         `json:"isDeleted"`
}

// Usable reports whether transactions may reference the account.
func (a *AccountReplica) Usable() bool {
	return !a.IsDeleted && !a.IsArchived
}

type AccountTypeReplica struct {
	ID   id.AccountTypeID `json:"id"`
	Code string           `json:"code"`
	Name string           `json:"name"`
}

type CategoryReplica struct {
	ID               id.CategoryID `json:"id"`
	RegistryHolderID id.HolderID   `json:"registryHolderId"`
	Name             string        `json:"name"`
	IsDeleted        bool          `json:"isDeleted"`
}

type CurrencyReplica struct {
	ID       id.CurrencyID `json:"id"`
	CharCode string        `json:"charCode"`
	Name     string        `json:"name"`
}
