package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/catalog"
	"plantcare-be/internal/payment"
	"plantcare-be/internal/plant"
	"plantcare-be/internal/voucher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o *Order, markVoucher bool) error {
	args := m.Called(ctx, o, markVoucher)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByCustomer(ctx context.Context, userID uint) ([]*Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListAvailable(ctx context.Context) ([]*Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListAssigned(ctx context.Context, staffID uint, terminal bool) ([]*Order, error) {
	args := m.Called(ctx, staffID, terminal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) UpdateStatusFrom(ctx context.Context, orderID uint, from, to Status) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter *Filter) ([]*Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) OverrideStatus(ctx context.Context, orderID uint, to Status) error {
	args := m.Called(ctx, orderID, to)
	return args.Error(0)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) List(ctx context.Context, activeOnly bool) ([]*catalog.CareService, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.CareService), args.Error(1)
}

func (m *MockCatalog) GetByID(ctx context.Context, id uint) (*catalog.CareService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CareService), args.Error(1)
}

func (m *MockCatalog) Create(ctx context.Context, svc *catalog.CareService) error {
	return m.Called(ctx, svc).Error(0)
}

func (m *MockCatalog) Update(ctx context.Context, svc *catalog.CareService) error {
	return m.Called(ctx, svc).Error(0)
}

func (m *MockCatalog) Deactivate(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockPlants struct {
	mock.Mock
}

func (m *MockPlants) GetByUserID(ctx context.Context, userID uint) ([]*plant.Plant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*plant.Plant), args.Error(1)
}

func (m *MockPlants) GetByID(ctx context.Context, id uint) (*plant.Plant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plant.Plant), args.Error(1)
}

func (m *MockPlants) Create(ctx context.Context, p *plant.Plant) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlants) Update(ctx context.Context, p *plant.Plant) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlants) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockVouchers struct {
	mock.Mock
}

func (m *MockVouchers) FindForUser(ctx context.Context, code string, userID uint) (*voucher.Voucher, error) {
	args := m.Called(ctx, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVouchers) Create(ctx context.Context, v *voucher.Voucher) error {
	return m.Called(ctx, v).Error(0)
}

type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) ByOrder(ctx context.Context, orderID uint) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPayments) SumPaid(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type testDeps struct {
	repo     *MockRepository
	catalog  *MockCatalog
	plants   *MockPlants
	vouchers *MockVouchers
	payments *MockPayments
	svc      Service
}

func newTestService() *testDeps {
	d := &testDeps{
		repo:     new(MockRepository),
		catalog:  new(MockCatalog),
		plants:   new(MockPlants),
		vouchers: new(MockVouchers),
		payments: new(MockPayments),
	}
	d.svc = NewService(d.repo, d.catalog, d.plants, d.vouchers, d.payments)
	return d
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		Items: []LineItemInput{
			{ServiceID: 1, Quantity: 1},
			{ServiceID: 2, Quantity: 2},
		},
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Address:     "12 Garden Lane",
	}
}

// --- Create ---

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	customerID := uint(7)

	repotting := &catalog.CareService{ID: 1, Name: "Repotting", Price: 10, Active: true}
	watering := &catalog.CareService{ID: 2, Name: "Watering", Price: 5, Active: true}

	t.Run("TotalWithoutVoucher", func(t *testing.T) {
		d := newTestService()
		d.catalog.On("GetByID", ctx, uint(1)).Return(repotting, nil)
		d.catalog.On("GetByID", ctx, uint(2)).Return(watering, nil)

		d.repo.On("CreateOrderTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.Total == 20 && o.Discount == 0 &&
				o.Status == StatusPending && len(o.Items) == 2
		}), false).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*Order).ID = 42
		})

		id, err := d.svc.Create(ctx, customerID, validInput())
		require.NoError(t, err)
		assert.Equal(t, uint(42), id)
		d.repo.AssertExpectations(t)
	})

	t.Run("TotalWithValidVoucher", func(t *testing.T) {
		d := newTestService()
		d.catalog.On("GetByID", ctx, uint(1)).Return(repotting, nil)
		d.catalog.On("GetByID", ctx, uint(2)).Return(watering, nil)

		code := "SPRING10"
		d.vouchers.On("FindForUser", ctx, code, customerID).Return(&voucher.Voucher{
			Code:      code,
			UserID:    customerID,
			Percent:   10,
			ExpiresAt: time.Now().Add(48 * time.Hour),
		}, nil)

		d.repo.On("CreateOrderTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.Total == 18 && o.Discount == 2 && o.VoucherCode != nil
		}), true).Return(nil)

		input := validInput()
		input.VoucherCode = &code

		_, err := d.svc.Create(ctx, customerID, input)
		require.NoError(t, err)
		d.repo.AssertExpectations(t)
	})

	t.Run("ExpiredVoucherIgnored", func(t *testing.T) {
		d := newTestService()
		d.catalog.On("GetByID", ctx, uint(1)).Return(repotting, nil)
		d.catalog.On("GetByID", ctx, uint(2)).Return(watering, nil)

		code := "OLD10"
		d.vouchers.On("FindForUser", ctx, code, customerID).Return(&voucher.Voucher{
			Code:      code,
			UserID:    customerID,
			Percent:   10,
			ExpiresAt: time.Now().Add(-time.Hour),
		}, nil)

		// Full price, voucher not marked.
		d.repo.On("CreateOrderTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.Total == 20 && o.Discount == 0 && o.VoucherCode == nil
		}), false).Return(nil)

		input := validInput()
		input.VoucherCode = &code

		_, err := d.svc.Create(ctx, customerID, input)
		require.NoError(t, err)
		d.repo.AssertExpectations(t)
	})

	t.Run("UnknownVoucherIgnored", func(t *testing.T) {
		d := newTestService()
		d.catalog.On("GetByID", ctx, uint(1)).Return(repotting, nil)
		d.catalog.On("GetByID", ctx, uint(2)).Return(watering, nil)

		code := "NOPE"
		d.vouchers.On("FindForUser", ctx, code, customerID).Return(nil, nil)

		d.repo.On("CreateOrderTx", ctx, mock.Anything, false).Return(nil)

		input := validInput()
		input.VoucherCode = &code

		_, err := d.svc.Create(ctx, customerID, input)
		require.NoError(t, err)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		d := newTestService()

		input := validInput()
		input.Items = nil

		_, err := d.svc.Create(ctx, customerID, input)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("MissingAddress", func(t *testing.T) {
		d := newTestService()

		input := validInput()
		input.Address = ""

		_, err := d.svc.Create(ctx, customerID, input)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("PastSchedule", func(t *testing.T) {
		d := newTestService()

		input := validInput()
		input.ScheduledAt = time.Now().Add(-2 * time.Hour)

		_, err := d.svc.Create(ctx, customerID, input)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("UnknownService", func(t *testing.T) {
		d := newTestService()
		d.catalog.On("GetByID", ctx, uint(1)).Return(nil, sql.ErrNoRows)

		_, err := d.svc.Create(ctx, customerID, validInput())
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("InactiveService", func(t *testing.T) {
		d := newTestService()
		d.catalog.On("GetByID", ctx, uint(1)).
			Return(&catalog.CareService{ID: 1, Price: 10, Active: false}, nil)

		_, err := d.svc.Create(ctx, customerID, validInput())
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("ForeignPlant", func(t *testing.T) {
		d := newTestService()
		plantID := uint(3)
		d.plants.On("GetByID", ctx, plantID).
			Return(&plant.Plant{ID: plantID, UserID: 99}, nil)

		input := validInput()
		input.PlantID = &plantID

		_, err := d.svc.Create(ctx, customerID, input)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("PersistenceFailure", func(t *testing.T) {
		d := newTestService()
		d.catalog.On("GetByID", ctx, uint(1)).Return(repotting, nil)
		d.catalog.On("GetByID", ctx, uint(2)).Return(watering, nil)
		d.repo.On("CreateOrderTx", ctx, mock.Anything, false).
			Return(sql.ErrConnDone)

		_, err := d.svc.Create(ctx, customerID, validInput())
		assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
	})
}

// --- Cancel ---

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	customerID := uint(7)
	orderID := uint(42)

	t.Run("Success", func(t *testing.T) {
		d := newTestService()
		d.repo.On("GetByID", ctx, orderID).
			Return(&Order{ID: orderID, UserID: customerID, Status: StatusPending}, nil)
		d.repo.On("UpdateStatusFrom", ctx, orderID, StatusPending, StatusCancelled).
			Return(true, nil)

		err := d.svc.Cancel(ctx, customerID, orderID)
		assert.NoError(t, err)
	})

	t.Run("NotOwner", func(t *testing.T) {
		d := newTestService()
		d.repo.On("GetByID", ctx, orderID).
			Return(&Order{ID: orderID, UserID: 99, Status: StatusPending}, nil)

		err := d.svc.Cancel(ctx, customerID, orderID)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("AlreadyAccepted", func(t *testing.T) {
		d := newTestService()
		d.repo.On("GetByID", ctx, orderID).
			Return(&Order{ID: orderID, UserID: customerID, Status: StatusAccepted}, nil)

		err := d.svc.Cancel(ctx, customerID, orderID)
		assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
	})

	t.Run("LostRace", func(t *testing.T) {
		d := newTestService()
		d.repo.On("GetByID", ctx, orderID).
			Return(&Order{ID: orderID, UserID: customerID, Status: StatusPending}, nil)
		d.repo.On("UpdateStatusFrom", ctx, orderID, StatusPending, StatusCancelled).
			Return(false, nil)

		err := d.svc.Cancel(ctx, customerID, orderID)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		d := newTestService()
		d.repo.On("GetByID", ctx, orderID).Return(nil, sql.ErrNoRows)

		err := d.svc.Cancel(ctx, customerID, orderID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerSeesOrderWithPayment", func(t *testing.T) {
		d := newTestService()
		d.repo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7}, nil)
		d.payments.On("ByOrder", ctx, uint(1)).
			Return(&payment.Payment{OrderID: 1, Status: payment.StatusPending, Amount: 20}, nil)

		o, err := d.svc.Get(ctx, 7, false, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(1), o.ID)
		require.NotNil(t, o.Payment)
		assert.Equal(t, payment.StatusPending, o.Payment.Status)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		d := newTestService()
		d.repo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7}, nil)

		_, err := d.svc.Get(ctx, 8, false, 1)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
		d.payments.AssertNotCalled(t, "ByOrder", mock.Anything, mock.Anything)
	})

	t.Run("AdminSeesAll", func(t *testing.T) {
		d := newTestService()
		d.repo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7}, nil)
		d.payments.On("ByOrder", ctx, uint(1)).Return(nil, sql.ErrNoRows)

		o, err := d.svc.Get(ctx, 8, true, 1)
		require.NoError(t, err)
		assert.Nil(t, o.Payment)
	})
}
