package catalog

import (
	"context"
	"database/sql"
	"errors"

	"plantcare-be/internal/apperr"
)

type Service interface {
	List(ctx context.Context, activeOnly bool) ([]*CareService, error)
	Get(ctx context.Context, id uint) (*CareService, error)
	Create(ctx context.Context, input CreateServiceInput) (*CareService, error)
	Update(ctx context.Context, id uint, input UpdateServiceInput) (*CareService, error)
	Deactivate(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]*CareService, error) {
	res, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return res, nil
}

func (s *service) Get(ctx context.Context, id uint) (*CareService, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("service")
		}
		return nil, apperr.Persistence(err)
	}
	return svc, nil
}

func (s *service) Create(ctx context.Context, input CreateServiceInput) (*CareService, error) {
	svc := &CareService{
		Name:     input.Name,
		Price:    input.Price,
		Duration: input.Duration,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, apperr.Persistence(err)
	}
	return svc, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateServiceInput) (*CareService, error) {
	svc := &CareService{
		ID:       id,
		Name:     input.Name,
		Price:    input.Price,
		Duration: input.Duration,
		Active:   input.Active,
	}
	if err := s.repo.Update(ctx, svc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("service")
		}
		return nil, apperr.Persistence(err)
	}
	return svc, nil
}

func (s *service) Deactivate(ctx context.Context, id uint) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("service")
		}
		return apperr.Persistence(err)
	}
	return nil
}
