package service

import (
	"context"
	"errors"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

// maxCategoryDepth caps the parent-chain walk. A chain this long is treated
// as cyclic rather than walked further.
const maxCategoryDepth = 64

// CreateCategory adds a category to a holder's tree. The name must be free
// within (holder, parent); the parent, when given, must be a live category
// of the same holder.
func (s *Service) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	req.Normalize()
	if err := requireHolderID(req.RegistryHolderID); err != nil {
		return nil, err
	}

	var category *models.Category
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := models.NewCategory(id.NewCategoryID(), req, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		holder, err := s.holders.FindByID(txCtx, c.RegistryHolderID)
		if err != nil {
			return wrapHolderErr(err, c.RegistryHolderID)
		}
		if holder.IsDeleted {
			return models.ErrHolderNotFound(c.RegistryHolderID)
		}
		if c.ParentID != nil {
			if err := s.checkCategoryParent(txCtx, c.RegistryHolderID, *c.ParentID, c.ID); err != nil {
				return err
			}
		}
		if err := s.checkCategoryNameFree(txCtx, c.RegistryHolderID, c.ParentID, c.Name, c.ID); err != nil {
			return err
		}
		if err := s.categories.Create(txCtx, c); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrCategoryNameExists(c.Name)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create category")
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementCategoryCreated()
	return category, nil
}

func (s *Service) GetCategory(ctx context.Context, categoryID id.CategoryID) (*models.Category, error) {
	if err := requireCategoryID(categoryID); err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, wrapCategoryErr(err, categoryID)
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, error) {
	filter.Page = filter.Page.Normalize()
	categories, err := s.categories.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
	}
	return categories, nil
}

// UpdateCategory applies the provided fields. A null parentId in the JSON
// body arrives as ClearParent and detaches the category from its parent;
// an absent parentId leaves the parent untouched. Re-parenting re-checks
// the cycle invariant and name uniqueness in the new scope.
func (s *Service) UpdateCategory(ctx context.Context, req *models.UpdateCategoryRequest) (*models.Category, error) {
	if err := requireCategoryID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var category *models.Category
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.categories.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapCategoryErr(err, req.ID)
		}

		changed := false
		scopeChanged := false
		if req.Name != nil && *req.Name != c.Name {
			c.Name = *req.Name
			changed, scopeChanged = true, true
		}
		if req.IsIncome != nil && *req.IsIncome != c.IsIncome {
			c.IsIncome = *req.IsIncome
			changed = true
		}
		if req.IsExpense != nil && *req.IsExpense != c.IsExpense {
			c.IsExpense = *req.IsExpense
			changed = true
		}
		if req.ClearParent {
			if c.ParentID != nil {
				c.ParentID = nil
				changed, scopeChanged = true, true
			}
		} else if req.ParentID != nil && !sameCategoryRef(req.ParentID, c.ParentID) {
			if err := s.checkCategoryParent(txCtx, c.RegistryHolderID, *req.ParentID, c.ID); err != nil {
				return err
			}
			parent := *req.ParentID
			c.ParentID = &parent
			changed, scopeChanged = true, true
		}
		if !changed {
			category = c
			return nil
		}

		if !c.IsIncome && !c.IsExpense {
			return dErrors.New(dErrors.CodeInvariantViolation, "category must be income, expense or both")
		}
		if scopeChanged {
			if err := s.checkCategoryNameFree(txCtx, c.RegistryHolderID, c.ParentID, c.Name, c.ID); err != nil {
				return err
			}
		}

		c.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.categories.Update(txCtx, c); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrCategoryNameExists(c.Name)
			}
			return wrapCategoryErr(err, req.ID)
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// SoftDeleteCategory marks the category deleted. Idempotent. Children keep
// their parent pointer and stay usable.
func (s *Service) SoftDeleteCategory(ctx context.Context, categoryID id.CategoryID) (*models.Category, error) {
	if err := requireCategoryID(categoryID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	category, err := s.categories.Execute(ctx, categoryID,
		func(*models.Category) error { return nil },
		func(c *models.Category) {
			if c.IsDeleted {
				return
			}
			c.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapCategoryErr(err, categoryID)
	}
	return category, nil
}

// RestoreCategory clears the deleted mark. Idempotent.
func (s *Service) RestoreCategory(ctx context.Context, categoryID id.CategoryID) (*models.Category, error) {
	if err := requireCategoryID(categoryID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	category, err := s.categories.Execute(ctx, categoryID,
		func(*models.Category) error { return nil },
		func(c *models.Category) {
			if !c.IsDeleted {
				return
			}
			c.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapCategoryErr(err, categoryID)
	}
	return category, nil
}

// DeleteCategory permanently removes the category. Refused while child
// categories, soft-deleted ones included, still point at it.
func (s *Service) DeleteCategory(ctx context.Context, categoryID id.CategoryID) error {
	if err := requireCategoryID(categoryID); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.categories.FindByID(txCtx, categoryID); err != nil {
			return wrapCategoryErr(err, categoryID)
		}
		children, err := s.categories.CountChildren(txCtx, categoryID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count child categories")
		}
		if children > 0 {
			return models.ErrCategoryInUse(categoryID)
		}
		if err := s.categories.Delete(txCtx, categoryID); err != nil {
			if errors.Is(err, sentinel.ErrInUse) {
				return models.ErrCategoryInUse(categoryID)
			}
			return wrapCategoryErr(err, categoryID)
		}
		return nil
	})
}

// checkCategoryParent validates a proposed parent: it must exist, belong to
// the same holder, be live, and not sit below the category itself.
func (s *Service) checkCategoryParent(ctx context.Context, holderID id.HolderID, parentID, selfID id.CategoryID) error {
	if parentID == selfID {
		return models.ErrCategoryParentCycle(selfID)
	}
	parent, err := s.categories.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.ErrCategoryParentInvalid("parent category not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parent category")
	}
	if parent.RegistryHolderID != holderID {
		return models.ErrCategoryParentInvalid("parent belongs to a different holder")
	}
	if parent.IsDeleted {
		return models.ErrCategoryParentInvalid("parent category is deleted")
	}
	cyclic, err := s.categoryChainContains(ctx, parentID, selfID)
	if err != nil {
		return err
	}
	if cyclic {
		return models.ErrCategoryParentCycle(selfID)
	}
	return nil
}

// categoryChainContains walks up the parent chain from startID and reports
// whether target appears in it.
func (s *Service) categoryChainContains(ctx context.Context, startID, target id.CategoryID) (bool, error) {
	current := startID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current == target {
			return true, nil
		}
		node, err := s.categories.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return false, nil
			}
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to walk category parents")
		}
		if node.ParentID == nil {
			return false, nil
		}
		current = *node.ParentID
	}
	return true, nil
}

func (s *Service) checkCategoryNameFree(ctx context.Context, holderID id.HolderID, parentID *id.CategoryID, name string, selfID id.CategoryID) error {
	existing, err := s.categories.FindByHolderParentName(ctx, holderID, parentID, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check category name")
	}
	if existing.ID != selfID {
		return models.ErrCategoryNameExists(name)
	}
	return nil
}

func sameCategoryRef(a, b *id.CategoryID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func requireCategoryID(categoryID id.CategoryID) error {
	if categoryID.IsNil() {
		return models.ErrRequired("category id")
	}
	return nil
}

func wrapCategoryErr(err error, categoryID id.CategoryID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrCategoryNotFound(categoryID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "category storage failure")
}

func (s *Service) incrementCategoryCreated() {
	if s.metrics != nil {
		s.metrics.IncrementCategoryCreated()
	}
}
