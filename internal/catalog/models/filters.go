package models

import (
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
)

// ListFilter is the common filter for reference-data listings.
type ListFilter struct {
	IncludeDeleted bool
	Page           id.PageParams
}
