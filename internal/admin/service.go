// Package admin is the oversight surface: full order visibility, the status
// override escape hatch, and the dashboard aggregates.
package admin

import (
	"context"
	"database/sql"
	"errors"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/logger"
	"plantcare-be/internal/order"
	"plantcare-be/internal/payment"
	"plantcare-be/internal/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	TotalOrders    int64   `json:"total_orders"`
	TotalStaff     int64   `json:"total_staff"`
	TotalCustomers int64   `json:"total_customers"`
	Revenue        float64 `json:"revenue"`
}

type Service interface {
	ListOrders(ctx context.Context, filter *order.Filter) ([]*order.Order, error)

	// OverrideStatus moves an order to any status, bypassing the
	// forward-only graph. Deliberately a separate verb from the staff
	// workflow so the escape hatch stays auditable.
	OverrideStatus(ctx context.Context, orderID uint, status string) (order.Status, error)

	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	orders   order.Repository
	users    user.Repository
	payments payment.Repository
}

func NewService(orderRepo order.Repository, userRepo user.Repository, paymentRepo payment.Repository) Service {
	return &service{orders: orderRepo, users: userRepo, payments: paymentRepo}
}

func (s *service) ListOrders(ctx context.Context, filter *order.Filter) ([]*order.Order, error) {
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return orders, nil
}

func (s *service) OverrideStatus(ctx context.Context, orderID uint, status string) (order.Status, error) {
	target, ok := order.ParseStatus(status)
	if !ok {
		return "", apperr.Validation("unknown status: " + status)
	}

	if err := s.orders.OverrideStatus(ctx, orderID, target); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("order")
		}
		return "", apperr.Persistence(err)
	}

	logger.FromCtx(ctx).Warn("admin status override",
		zap.Uint("order_id", orderID),
		zap.String("status", string(target)),
	)

	return target, nil
}

// DashboardStats fans the four aggregates out concurrently; they read
// independent tables and no transactional snapshot is required.
func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.orders.Count(ctx)
		stats.TotalOrders = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountByRole(ctx, user.RoleStaff)
		stats.TotalStaff = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountByRole(ctx, user.RoleCustomer)
		stats.TotalCustomers = n
		return err
	})
	g.Go(func() error {
		sum, err := s.payments.SumPaid(ctx)
		stats.Revenue = sum
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, apperr.Persistence(err)
	}

	return &stats, nil
}
