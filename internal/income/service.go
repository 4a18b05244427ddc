package income

import (
	"context"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/logger"
	"plantcare-be/internal/middleware"

	"go.uber.org/zap"
)

type Service interface {
	// RecordCompletion recomputes the staff member's completed-order count
	// after orderID reached DONE and emits a bonus when the count lands on
	// an even milestone. Safe to call again for the same order.
	RecordCompletion(ctx context.Context, staffID, orderID uint) error

	Income(ctx context.Context, staffID uint) (*Summary, error)
}

type service struct {
	repo Repository
	// amount is the flat payout per milestone.
	amount float64
}

func NewService(repo Repository, amount float64) Service {
	return &service{repo: repo, amount: amount}
}

func (s *service) RecordCompletion(ctx context.Context, staffID, orderID uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Income"),
		zap.Uint("staff_id", staffID),
		zap.Uint("order_id", orderID),
	)

	count, err := s.repo.CountCompleted(ctx, staffID)
	if err != nil {
		return apperr.Persistence(err)
	}

	if count == 0 || count%2 != 0 {
		return nil
	}

	inserted, err := s.repo.InsertBonus(ctx, &Bonus{
		OrderID:   orderID,
		StaffID:   staffID,
		Milestone: count,
		Amount:    s.amount,
	})
	if err != nil {
		return apperr.Persistence(err)
	}

	if !inserted {
		log.Info("bonus already awarded for this order")
		return nil
	}

	middleware.IncBonusesEmitted()
	log.Info("milestone bonus emitted",
		zap.Int("milestone", count),
		zap.Float64("amount", s.amount),
	)
	return nil
}

func (s *service) Income(ctx context.Context, staffID uint) (*Summary, error) {
	bonuses, err := s.repo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	var total float64
	for _, b := range bonuses {
		total += b.Amount
	}

	return &Summary{Bonuses: bonuses, Total: total}, nil
}
