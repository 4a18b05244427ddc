// Package task exposes the staff-facing workflow: claiming available orders
// and driving them forward through the status engine.
package task

import (
	"context"
	"database/sql"
	"errors"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/assignment"
	"plantcare-be/internal/income"
	"plantcare-be/internal/logger"
	"plantcare-be/internal/order"

	"go.uber.org/zap"
)

type Service interface {
	// Accept claims an unassigned pending order for staffID.
	Accept(ctx context.Context, staffID, orderID uint) (order.Status, error)

	// Advance applies one of move/care/complete for the assigned staff
	// member. accept also routes here and is rejected by the status
	// engine once an order left PENDING.
	Advance(ctx context.Context, staffID, orderID uint, action order.Action) (order.Status, error)

	Available(ctx context.Context) ([]*order.Order, error)
	Mine(ctx context.Context, staffID uint) ([]*order.Order, error)
	History(ctx context.Context, staffID uint) ([]*order.Order, error)
}

type service struct {
	orders      order.Repository
	assignments assignment.Service
	bindings    assignment.Repository
	income      income.Service
}

func NewService(
	orderRepo order.Repository,
	assignmentSvc assignment.Service,
	assignmentRepo assignment.Repository,
	incomeSvc income.Service,
) Service {
	return &service{
		orders:      orderRepo,
		assignments: assignmentSvc,
		bindings:    assignmentRepo,
		income:      incomeSvc,
	}
}

func (s *service) Accept(ctx context.Context, staffID, orderID uint) (order.Status, error) {
	if err := s.assignments.Accept(ctx, orderID, staffID); err != nil {
		return "", err
	}
	return order.StatusAccepted, nil
}

func (s *service) Advance(ctx context.Context, staffID, orderID uint, action order.Action) (order.Status, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Task"),
		zap.Uint("staff_id", staffID),
		zap.Uint("order_id", orderID),
		zap.String("action", string(action)),
	)

	a, err := s.bindings.ActiveFor(ctx, orderID)
	if err != nil {
		return "", apperr.Persistence(err)
	}
	if a == nil || a.StaffID != staffID {
		return "", apperr.Forbidden("order is not assigned to you")
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("order")
		}
		return "", apperr.Persistence(err)
	}

	next, ok := order.NextStatus(o.Status, action)
	if !ok {
		// A replayed complete on an already-DONE order is how the
		// assignee repairs a bonus emission that failed after the
		// completion committed. Emission is idempotent, so nothing is
		// double-paid.
		if action == order.ActionComplete && o.Status == order.StatusDone {
			if err := s.income.RecordCompletion(ctx, staffID, orderID); err != nil {
				return "", err
			}
			return order.StatusDone, nil
		}
		return "", apperr.IllegalTransition(
			"action " + string(action) + " is not allowed from status " + string(o.Status),
		)
	}

	swapped, err := s.orders.UpdateStatusFrom(ctx, orderID, o.Status, next)
	if err != nil {
		return "", apperr.Persistence(err)
	}
	if !swapped {
		return "", apperr.Conflict("order status changed concurrently")
	}

	log.Info("order advanced", zap.String("status", string(next)))

	if action == order.ActionComplete {
		// The completion already committed; a calculator hiccup must not
		// roll it back. Replaying complete on the DONE order retries the
		// emission.
		if err := s.income.RecordCompletion(ctx, staffID, orderID); err != nil {
			log.Error("milestone bonus computation failed", zap.Error(err))
		}
	}

	return next, nil
}

func (s *service) Available(ctx context.Context) ([]*order.Order, error) {
	orders, err := s.orders.ListAvailable(ctx)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return orders, nil
}

func (s *service) Mine(ctx context.Context, staffID uint) ([]*order.Order, error) {
	orders, err := s.orders.ListAssigned(ctx, staffID, false)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return orders, nil
}

func (s *service) History(ctx context.Context, staffID uint) ([]*order.Order, error) {
	orders, err := s.orders.ListAssigned(ctx, staffID, true)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return orders, nil
}
