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

// CreateRegistryHolder registers a new holder. TelegramID must be unique;
// the service checks first so the API reports a structured conflict, with
// the storage unique index as backstop for races.
func (s *Service) CreateRegistryHolder(ctx context.Context, req *models.CreateRegistryHolderRequest) (*models.RegistryHolder, error) {
	req.Normalize()

	var holder *models.RegistryHolder
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		h, err := models.NewRegistryHolder(id.NewHolderID(), req.Name, req.TelegramID, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.checkTelegramIDFree(txCtx, h.TelegramID, h.ID); err != nil {
			return err
		}
		if err := s.holders.Create(txCtx, h); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrHolderTelegramIDExists(h.TelegramID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registry holder")
		}
		holder = h
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, "registry_holder_created", "holder_id", holder.ID)
	s.incrementHolderCreated()
	return holder, nil
}

func (s *Service) GetRegistryHolder(ctx context.Context, holderID id.HolderID) (*models.RegistryHolder, error) {
	if err := requireHolderID(holderID); err != nil {
		return nil, err
	}
	holder, err := s.holders.FindByID(ctx, holderID)
	if err != nil {
		return nil, wrapHolderErr(err, holderID)
	}
	return holder, nil
}

// GetRegistryHolderByTelegramID resolves the holder a Telegram chat belongs
// to. Bot integrations identify users by this value, not by UUID.
func (s *Service) GetRegistryHolderByTelegramID(ctx context.Context, telegramID int64) (*models.RegistryHolder, error) {
	if telegramID <= 0 {
		return nil, models.ErrRequired("telegram id")
	}
	holder, err := s.holders.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "registry holder with telegram id %d not found", telegramID).
				WithReason("REGISTRY_HOLDER_NOT_FOUND")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find registry holder")
	}
	return holder, nil
}

func (s *Service) ListRegistryHolders(ctx context.Context, filter models.ListFilter) ([]*models.RegistryHolder, error) {
	filter.Page = filter.Page.Normalize()
	holders, err := s.holders.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registry holders")
	}
	return holders, nil
}

// UpdateRegistryHolder applies the provided fields. Fields equal to the
// stored value are ignored; a request that changes nothing returns the
// current state without touching storage.
func (s *Service) UpdateRegistryHolder(ctx context.Context, req *models.UpdateRegistryHolderRequest) (*models.RegistryHolder, error) {
	if err := requireHolderID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var holder *models.RegistryHolder
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		h, err := s.holders.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapHolderErr(err, req.ID)
		}

		changed := false
		if req.Name != nil && *req.Name != h.Name {
			h.Name = *req.Name
			changed = true
		}
		if req.TelegramID != nil && *req.TelegramID != h.TelegramID {
			if err := s.checkTelegramIDFree(txCtx, *req.TelegramID, h.ID); err != nil {
				return err
			}
			h.TelegramID = *req.TelegramID
			changed = true
		}
		if !changed {
			holder = h
			return nil
		}

		h.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.holders.Update(txCtx, h); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrHolderTelegramIDExists(h.TelegramID)
			}
			return wrapHolderErr(err, req.ID)
		}
		holder = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return holder, nil
}

// SoftDeleteRegistryHolder marks the holder deleted. Already-deleted holders
// pass through unchanged; the operation is idempotent.
func (s *Service) SoftDeleteRegistryHolder(ctx context.Context, holderID id.HolderID) (*models.RegistryHolder, error) {
	if err := requireHolderID(holderID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	holder, err := s.holders.Execute(ctx, holderID,
		func(*models.RegistryHolder) error { return nil },
		func(h *models.RegistryHolder) {
			if h.IsDeleted {
				return
			}
			h.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapHolderErr(err, holderID)
	}
	return holder, nil
}

// RestoreRegistryHolder clears the deleted mark. Idempotent.
func (s *Service) RestoreRegistryHolder(ctx context.Context, holderID id.HolderID) (*models.RegistryHolder, error) {
	if err := requireHolderID(holderID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	holder, err := s.holders.Execute(ctx, holderID,
		func(*models.RegistryHolder) error { return nil },
		func(h *models.RegistryHolder) {
			if !h.IsDeleted {
				return
			}
			h.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapHolderErr(err, holderID)
	}
	return holder, nil
}

// DeleteRegistryHolder permanently removes the holder. Refused while the
// holder still owns accounts or categories, soft-deleted ones included.
func (s *Service) DeleteRegistryHolder(ctx context.Context, holderID id.HolderID) error {
	if err := requireHolderID(holderID); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.holders.FindByID(txCtx, holderID); err != nil {
			return wrapHolderErr(err, holderID)
		}
		accounts, err := s.accounts.CountByHolder(txCtx, holderID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count holder accounts")
		}
		categories, err := s.categories.CountByHolder(txCtx, holderID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count holder categories")
		}
		if accounts+categories > 0 {
			return models.ErrHolderInUse(holderID)
		}
		if err := s.holders.Delete(txCtx, holderID); err != nil {
			if errors.Is(err, sentinel.ErrInUse) {
				return models.ErrHolderInUse(holderID)
			}
			return wrapHolderErr(err, holderID)
		}
		return nil
	})
}

// checkTelegramIDFree reports a conflict when another holder already uses
// the telegram id. selfID excludes the holder being updated.
func (s *Service) checkTelegramIDFree(ctx context.Context, telegramID int64, selfID id.HolderID) error {
	existing, err := s.holders.FindByTelegramID(ctx, telegramID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check telegram id")
	}
	if existing.ID != selfID {
		return models.ErrHolderTelegramIDExists(telegramID)
	}
	return nil
}

func requireHolderID(holderID id.HolderID) error {
	if holderID.IsNil() {
		return models.ErrRequired("registry holder id")
	}
	return nil
}

func wrapHolderErr(err error, holderID id.HolderID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrHolderNotFound(holderID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "registry holder storage failure")
}

func (s *Service) incrementHolderCreated() {
	if s.metrics != nil {
		s.metrics.IncrementHolderCreated()
	}
}
