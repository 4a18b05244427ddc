package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (string, *User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	Profile(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register creates a customer account. Staff and admin accounts are seeded
// out of band; registration never grants an elevated role.
func (s *service) Register(ctx context.Context, input RegisterInput) (string, *User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, apperr.Persistence(err)
	}

	u := &User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Phone:    input.Phone,
		Role:     RoleCustomer,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return "", nil, apperr.Conflict("email already registered")
		}
		return "", nil, apperr.Persistence(err)
	}

	token, err := GenerateJWT(u.ID, u.Role, u.Email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return "", nil, apperr.Persistence(err)
	}

	log.Info("user registered",
		zap.Uint("user_id", u.ID),
		zap.String("email", u.Email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Same answer for unknown email and bad password.
		return "", nil, apperr.Unauthenticated("invalid email or password")
	}

	if !CheckPasswordHash(password, u.Password) {
		return "", nil, apperr.Unauthenticated("invalid email or password")
	}

	token, err := GenerateJWT(u.ID, u.Role, u.Email)
	if err != nil {
		return "", nil, apperr.Persistence(err)
	}

	return token, u, nil
}

func (s *service) Profile(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Persistence(err)
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperr.Validation("name is required")
	}
	if err := s.repo.UpdateProfile(ctx, id, input.Name, input.Phone); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}
