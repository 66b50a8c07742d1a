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

// CreateCountry adds a country. Names are unique case-insensitively.
func (s *Service) CreateCountry(ctx context.Context, req *models.CreateCountryRequest) (*models.Country, error) {
	req.Normalize()

	var country *models.Country
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := models.NewCountry(id.NewCountryID(), req.Name, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.checkCountryNameFree(txCtx, c.Name, c.ID); err != nil {
			return err
		}
		if err := s.countries.Create(txCtx, c); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrCountryNameExists(c.Name)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create country")
		}
		country = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return country, nil
}

func (s *Service) GetCountry(ctx context.Context, countryID id.CountryID) (*models.Country, error) {
	if err := requireCountryID(countryID); err != nil {
		return nil, err
	}
	country, err := s.countries.FindByID(ctx, countryID)
	if err != nil {
		return nil, wrapCountryErr(err, countryID)
	}
	return country, nil
}

func (s *Service) ListCountries(ctx context.Context, filter models.ListFilter) ([]*models.Country, error) {
	filter.Page = filter.Page.Normalize()
	countries, err := s.countries.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list countries")
	}
	return countries, nil
}

func (s *Service) UpdateCountry(ctx context.Context, req *models.UpdateCountryRequest) (*models.Country, error) {
	if err := requireCountryID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var country *models.Country
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.countries.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapCountryErr(err, req.ID)
		}

		if req.Name == nil || *req.Name == c.Name {
			country = c
			return nil
		}
		if err := s.checkCountryNameFree(txCtx, *req.Name, c.ID); err != nil {
			return err
		}

		c.Name = *req.Name
		c.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.countries.Update(txCtx, c); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrCountryNameExists(c.Name)
			}
			return wrapCountryErr(err, req.ID)
		}
		country = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return country, nil
}

// SoftDeleteCountry marks the country deleted. Idempotent.
func (s *Service) SoftDeleteCountry(ctx context.Context, countryID id.CountryID) (*models.Country, error) {
	if err := requireCountryID(countryID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	country, err := s.countries.Execute(ctx, countryID,
		func(*models.Country) error { return nil },
		func(c *models.Country) {
			if c.IsDeleted {
				return
			}
			c.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapCountryErr(err, countryID)
	}
	return country, nil
}

// RestoreCountry clears the deleted mark. Idempotent.
func (s *Service) RestoreCountry(ctx context.Context, countryID id.CountryID) (*models.Country, error) {
	if err := requireCountryID(countryID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	country, err := s.countries.Execute(ctx, countryID,
		func(*models.Country) error { return nil },
		func(c *models.Country) {
			if !c.IsDeleted {
				return
			}
			c.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapCountryErr(err, countryID)
	}
	return country, nil
}

// DeleteCountry permanently removes the country. Refused while any bank,
// soft-deleted or not, still references it.
func (s *Service) DeleteCountry(ctx context.Context, countryID id.CountryID) error {
	if err := requireCountryID(countryID); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.countries.FindByID(txCtx, countryID); err != nil {
			return wrapCountryErr(err, countryID)
		}
		banks, err := s.banks.CountByCountry(txCtx, countryID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count country banks")
		}
		if banks > 0 {
			return models.ErrCountryInUse(countryID)
		}
		if err := s.countries.Delete(txCtx, countryID); err != nil {
			if errors.Is(err, sentinel.ErrInUse) {
				return models.ErrCountryInUse(countryID)
			}
			return wrapCountryErr(err, countryID)
		}
		return nil
	})
}

func (s *Service) checkCountryNameFree(ctx context.Context, name string, selfID id.CountryID) error {
	existing, err := s.countries.FindByName(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check country name")
	}
	if existing.ID != selfID {
		return models.ErrCountryNameExists(name)
	}
	return nil
}

func requireCountryID(countryID id.CountryID) error {
	if countryID.IsNil() {
		return models.ErrRequired("country id")
	}
	return nil
}

func wrapCountryErr(err error, countryID id.CountryID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrCountryNotFound(countryID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "country storage failure")
}
