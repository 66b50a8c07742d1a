package models

import (
	"encoding/json"
	"strings"
	"time"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// Category classifies transactions. Categories form a tree per holder via
// ParentID.
//
// Invariants:
//   - Name is unique case-insensitively within (holder, parent)
//   - the parent chain never contains a cycle
//   - at least one of IsIncome / IsExpense is set
type Category struct {
	ID               id.CategoryID  `json:"id"`
	RegistryHolderID id.HolderID    `json:"registryHolderId"`
	Name             string         `json:"name"`
	IsIncome         bool           `json:"isIncome"`
	IsExpense        bool           `json:"isExpense"`
	ParentID         *id.CategoryID `json:"parentId,omitempty"`
	IsDeleted        bool           `json:"isDeleted"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func NewCategory(categoryID id.CategoryID, req *CreateCategoryRequest, now time.Time) (*Category, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if !req.IsIncome && !req.IsExpense {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "category must be income, expense or both")
	}
	return &Category{
		ID:               categoryID,
		RegistryHolderID: req.RegistryHolderID,
		Name:             req.Name,
		IsIncome:         req.IsIncome,
		IsExpense:        req.IsExpense,
		ParentID:         req.ParentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (c *Category) ApplySoftDelete(now time.Time) {
	c.IsDeleted = true
	c.UpdatedAt = now
}

func (c *Category) ApplyRestore(now time.Time) {
	c.IsDeleted = false
	c.UpdatedAt = now
}

type CreateCategoryRequest struct {
	RegistryHolderID id.HolderID    `json:"registryHolderId"`
	Name             string         `json:"name"`
	IsIncome         bool           `json:"isIncome"`
	IsExpense        bool           `json:"isExpense"`
	ParentID         *id.CategoryID `json:"parentId,omitempty"`
}

func (r *CreateCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateCategoryRequest is the PUT payload. ParentID uses a double pointer
// convention at the JSON layer instead: a null parentId in the body clears
// the parent, an absent one leaves it untouched. ClearParent carries the
// distinction after decoding.
type UpdateCategoryRequest struct {
	ID          id.CategoryID  `json:"id"`
	Name        *string        `json:"name,omitempty"`
	IsIncome    *bool          `json:"isIncome,omitempty"`
	IsExpense   *bool          `json:"isExpense,omitempty"`
	ParentID    *id.CategoryID `json:"parentId,omitempty"`
	ClearParent bool           `json:"clearParent,omitempty"`
}

func (r *UpdateCategoryRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
}

// UnmarshalJSON distinguishes `"parentId": null` (clear the parent) from an
// absent parentId (leave it alone), which plain struct decoding cannot.
func (r *UpdateCategoryRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateCategoryRequest
	aux := struct {
		ParentID json.RawMessage `json:"parentId"`
		*plain
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.ParentID == nil:
		r.ParentID = nil
	case string(aux.ParentID) == "null":
		r.ParentID = nil
		r.ClearParent = true
	default:
		var parentID id.CategoryID
		if err := json.Unmarshal(aux.ParentID, &parentID); err != nil {
			return err
		}
		r.ParentID = &parentID
	}
	return nil
}

func (r *UpdateCategoryRequest) Validate() error {
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if r.ClearParent && r.ParentID != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "clearParent and parentId are mutually exclusive")
	}
	return nil
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	RegistryHolderID *id.HolderID
	ParentID         *id.CategoryID
	IncludeDeleted   bool
	Page             id.PageParams
}
