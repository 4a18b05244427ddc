package assignment

import (
	"context"
	"database/sql"
	"errors"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/logger"
	"plantcare-be/internal/order"
	"plantcare-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	// Assign binds staffID to the order, replacing any existing
	// assignment. Admin-only; legal only while PENDING or ACCEPTED.
	Assign(ctx context.Context, orderID, staffID uint) error

	// Accept is the staff self-claim on an unassigned pending order.
	Accept(ctx context.Context, orderID, staffID uint) error

	// Remove deletes the assignment without touching order status.
	Remove(ctx context.Context, orderID, staffID uint) error
}

type service struct {
	repo   Repository
	orders order.Repository
	users  user.Repository
}

func NewService(repo Repository, orderRepo order.Repository, userRepo user.Repository) Service {
	return &service{repo: repo, orders: orderRepo, users: userRepo}
}

func (s *service) Assign(ctx context.Context, orderID, staffID uint) error {
	staff, err := s.users.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("staff")
		}
		return apperr.Persistence(err)
	}
	if staff.Role != user.RoleStaff {
		return apperr.Validation("assignee must have the staff role")
	}

	// Existence, the reassignment window, and the write itself are all
	// checked under one row lock in the repository.
	if err := s.repo.AssignTx(ctx, orderID, staffID); err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return err
		}
		return apperr.Persistence(err)
	}

	logger.FromCtx(ctx).Info("staff assigned",
		zap.Uint("order_id", orderID),
		zap.Uint("staff_id", staffID),
	)
	return nil
}

func (s *service) Accept(ctx context.Context, orderID, staffID uint) error {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("order")
		}
		return apperr.Persistence(err)
	}

	if err := s.repo.AcceptTx(ctx, orderID, staffID); err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return err
		}
		return apperr.Persistence(err)
	}
	return nil
}

func (s *service) Remove(ctx context.Context, orderID, staffID uint) error {
	if err := s.repo.Delete(ctx, orderID, staffID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("assignment")
		}
		return apperr.Persistence(err)
	}

	logger.FromCtx(ctx).Info("assignment removed",
		zap.Uint("order_id", orderID),
		zap.Uint("staff_id", staffID),
	)
	return nil
}
