package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/catalog"
	"plantcare-be/internal/logger"
	"plantcare-be/internal/payment"
	"plantcare-be/internal/plant"
	"plantcare-be/internal/voucher"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Service interface {
	// Create books a new order in PENDING and returns its id.
	Create(ctx context.Context, customerID uint, input CreateOrderInput) (uint, error)
	// Cancel is the customer's side exit, legal only while PENDING.
	Cancel(ctx context.Context, customerID, orderID uint) error
	Get(ctx context.Context, callerID uint, isAdmin bool, orderID uint) (*Order, error)
	ListMine(ctx context.Context, customerID uint) ([]*Order, error)
}

type service struct {
	repo     Repository
	catalog  catalog.Repository
	plants   plant.Repository
	vouchers voucher.Repository
	payments payment.Repository
	validate *validator.Validate
}

func NewService(
	repo Repository,
	catalogRepo catalog.Repository,
	plantRepo plant.Repository,
	voucherRepo voucher.Repository,
	paymentRepo payment.Repository,
) Service {
	return &service{
		repo:     repo,
		catalog:  catalogRepo,
		plants:   plantRepo,
		vouchers: voucherRepo,
		payments: paymentRepo,
		validate: validator.New(),
	}
}

func (s *service) Create(ctx context.Context, customerID uint, input CreateOrderInput) (uint, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Order"),
		zap.String("method", "Create"),
		zap.Uint("user_id", customerID),
	)

	if err := s.validate.Struct(input); err != nil {
		return 0, apperr.Validation(err.Error())
	}
	if input.ScheduledAt.Before(time.Now().Truncate(time.Minute)) {
		return 0, apperr.Validation("scheduled date must not be in the past")
	}

	// Plant ownership: a plant id that is missing or belongs to someone
	// else looks identical to the caller.
	if input.PlantID != nil {
		p, err := s.plants.GetByID(ctx, *input.PlantID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, apperr.NotFound("plant")
			}
			return 0, apperr.Persistence(err)
		}
		if p.UserID != customerID {
			return 0, apperr.NotFound("plant")
		}
	}

	// Price each line item from the live catalog.
	var items []OrderItem
	var total float64
	for _, li := range input.Items {
		svc, err := s.catalog.GetByID(ctx, li.ServiceID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, apperr.NotFound("service")
			}
			return 0, apperr.Persistence(err)
		}
		if !svc.Active {
			return 0, apperr.NotFound("service")
		}

		subtotal := svc.Price * float64(li.Quantity)
		items = append(items, OrderItem{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			Quantity:    li.Quantity,
			Price:       svc.Price,
			Subtotal:    subtotal,
		})
		total += subtotal
	}

	// An invalid, expired or already-used voucher is skipped, not an
	// error; the booking proceeds at full price.
	var discount float64
	applyVoucher := false
	if input.VoucherCode != nil && *input.VoucherCode != "" {
		v, err := s.vouchers.FindForUser(ctx, *input.VoucherCode, customerID)
		if err != nil {
			return 0, apperr.Persistence(err)
		}
		if v != nil && v.Valid(customerID, time.Now()) {
			discount = total * v.Percent / 100
			applyVoucher = true
		} else {
			log.Warn("voucher ignored",
				zap.String("code", *input.VoucherCode),
			)
		}
	}

	o := &Order{
		UserID:      customerID,
		PlantID:     input.PlantID,
		ScheduledAt: input.ScheduledAt,
		Address:     input.Address,
		Phone:       input.Phone,
		Note:        input.Note,
		Status:      StatusPending,
		Total:       total - discount,
		Discount:    discount,
		Items:       items,
	}
	if applyVoucher {
		o.VoucherCode = input.VoucherCode
	}

	if err := s.repo.CreateOrderTx(ctx, o, applyVoucher); err != nil {
		return 0, apperr.Persistence(err)
	}

	log.Info("order booked",
		zap.Uint("order_id", o.ID),
		zap.Float64("total", o.Total),
	)

	return o.ID, nil
}

func (s *service) Cancel(ctx context.Context, customerID, orderID uint) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("order")
		}
		return apperr.Persistence(err)
	}

	if o.UserID != customerID {
		return apperr.Forbidden("not your order")
	}
	if !CanCancel(o.Status) {
		return apperr.IllegalTransition("order can only be cancelled while pending")
	}

	ok, err := s.repo.UpdateStatusFrom(ctx, orderID, StatusPending, StatusCancelled)
	if err != nil {
		return apperr.Persistence(err)
	}
	if !ok {
		// Someone accepted it between our read and the swap.
		return apperr.Conflict("order is no longer pending")
	}

	logger.FromCtx(ctx).Info("order cancelled",
		zap.Uint("order_id", orderID),
		zap.Uint("user_id", customerID),
	)
	return nil
}

func (s *service) Get(ctx context.Context, callerID uint, isAdmin bool, orderID uint) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("order")
		}
		return nil, apperr.Persistence(err)
	}

	if !isAdmin && o.UserID != callerID {
		return nil, apperr.Forbidden("not your order")
	}

	p, err := s.payments.ByOrder(ctx, orderID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Persistence(err)
	}
	o.Payment = p

	return o, nil
}

func (s *service) ListMine(ctx context.Context, customerID uint) ([]*Order, error) {
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return orders, nil
}
