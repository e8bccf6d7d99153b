package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/logistics_shop/services/auth/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/transport"
	"github.com/google/uuid"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func validateAddress(req transport.AddressRequest) error {
	switch {
	case strings.TrimSpace(req.FullName) == "":
		return fmt.Errorf("full_name required: %w", ErrValidation)
	case strings.TrimSpace(req.Phone) == "":
		return fmt.Errorf("phone required: %w", ErrValidation)
	case strings.TrimSpace(req.Street) == "":
		return fmt.Errorf("street required: %w", ErrValidation)
	case strings.TrimSpace(req.City) == "":
		return fmt.Errorf("city required: %w", ErrValidation)
	}
	return nil
}

func apply(a *models.Address, req transport.AddressRequest) {
	a.Label = strings.TrimSpace(req.Label)
	a.FullName = strings.TrimSpace(req.FullName)
	a.Phone = strings.TrimSpace(req.Phone)
	a.Area = strings.TrimSpace(req.Area)
	a.Block = strings.TrimSpace(req.Block)
	a.Street = strings.TrimSpace(req.Street)
	a.Building = strings.TrimSpace(req.Building)
	a.City = strings.TrimSpace(req.City)
	a.Notes = strings.TrimSpace(req.Notes)
	a.IsDefault = req.IsDefault
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	return s.Repo.ListAddresses(ctx, userID)
}

func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req transport.AddressRequest) (*models.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}
	a := models.Address{UserID: userID}
	apply(&a, req)
	if err := s.Repo.CreateAddress(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id uuid.UUID, req transport.AddressRequest) (*models.Address, error) {
	if err := validateAddress(req); err != nil {
		return nil, err
	}
	a, err := s.Repo.GetAddress(ctx, userID, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	wasDefault := a.IsDefault
	apply(a, req)
	// the default flag is only moved by SetDefault or by a new default
	a.IsDefault = a.IsDefault || wasDefault
	if err := s.Repo.UpdateAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.Repo.DeleteAddress(ctx, userID, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("address %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	a, err := s.Repo.SetDefaultAddress(ctx, userID, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}
