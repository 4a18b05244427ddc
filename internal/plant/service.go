package plant

import (
	"context"
	"database/sql"
	"errors"

	"plantcare-be/internal/apperr"
)

type Service interface {
	Create(ctx context.Context, userID uint, input CreatePlantInput) (*Plant, error)
	ListMine(ctx context.Context, userID uint) ([]*Plant, error)
	Get(ctx context.Context, userID, plantID uint) (*Plant, error)
	Update(ctx context.Context, userID, plantID uint, input UpdatePlantInput) (*Plant, error)
	Delete(ctx context.Context, userID, plantID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID uint, input CreatePlantInput) (*Plant, error) {
	p := &Plant{
		UserID:      userID,
		Name:        input.Name,
		Type:        input.Type,
		Location:    input.Location,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Persistence(err)
	}
	return p, nil
}

func (s *service) ListMine(ctx context.Context, userID uint) ([]*Plant, error) {
	res, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return res, nil
}

// owned fetches a plant and hides its existence from non-owners.
func (s *service) owned(ctx context.Context, userID, plantID uint) (*Plant, error) {
	p, err := s.repo.GetByID(ctx, plantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("plant")
		}
		return nil, apperr.Persistence(err)
	}
	if p.UserID != userID {
		return nil, apperr.NotFound("plant")
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, userID, plantID uint) (*Plant, error) {
	return s.owned(ctx, userID, plantID)
}

func (s *service) Update(ctx context.Context, userID, plantID uint, input UpdatePlantInput) (*Plant, error) {
	p, err := s.owned(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Type = input.Type
	p.Location = input.Location
	p.Description = input.Description

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperr.Persistence(err)
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, userID, plantID uint) error {
	if _, err := s.owned(ctx, userID, plantID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, plantID); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}
