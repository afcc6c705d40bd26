package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/GlebRadaev/smmpanel/pkg/clients"
)

type mocks struct {
	orders   *MockOrderRepo
	refunder *MockRefunder
	provider *MockProvider
	tx       *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		orders:   NewMockOrderRepo(ctrl),
		refunder: NewMockRefunder(ctrl),
		provider: NewMockProvider(ctrl),
		tx:       pg.NewMockTXManager(ctrl),
	}
	service := New(m.orders, m.refunder, m.provider, m.tx, 10*time.Millisecond)
	t.Cleanup(service.workerPool.Close)
	return service, m
}

func (m *mocks) runTx() {
	m.tx.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
}

func ptr[T any](v T) *T { return &v }

type decimalMatcher struct{ want decimal.Decimal }

func (d decimalMatcher) Matches(x any) bool {
	got, ok := x.(decimal.Decimal)
	return ok && got.Equal(d.want)
}

func (d decimalMatcher) String() string { return "is " + d.want.String() }

func amount(s string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(s)}
}

func openOrder() domain.Order {
	return domain.Order{
		OrderID:    10001,
		AccountID:  1,
		ServiceID:  1,
		Link:       "https://instagram.com/p/abc",
		Quantity:   5000,
		Charge:     decimal.RequireFromString("50.00"),
		Remains:    5000,
		Status:     domain.OrderStatusInProgress,
		ExternalID: ptr("23501"),
	}
}

func TestService_submit(t *testing.T) {
	ctx := context.Background()
	order := openOrder()
	order.Status = domain.OrderStatusPending
	order.ExternalID = nil

	tests := []struct {
		name        string
		prepareMock func(m *mocks)
		wantErr     bool
	}{
		{
			name: "Stores provider id",
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().AddOrder(ctx, 1, "https://instagram.com/p/abc", 5000).Return("23501", nil)
				m.orders.EXPECT().SetExternalID(ctx, int64(10001), "23501").Return(true, nil)
			},
		},
		{
			name: "Already submitted by another worker",
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().AddOrder(ctx, 1, "https://instagram.com/p/abc", 5000).Return("23501", nil)
				m.orders.EXPECT().SetExternalID(ctx, int64(10001), "23501").Return(false, nil)
			},
		},
		{
			name: "Provider failure keeps the order pending",
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().AddOrder(ctx, 1, "https://instagram.com/p/abc", 5000).Return("", clients.ErrProvider)
			},
			wantErr: true,
		},
		{
			name: "Storage failure",
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().AddOrder(ctx, 1, "https://instagram.com/p/abc", 5000).Return("23501", nil)
				m.orders.EXPECT().SetExternalID(ctx, int64(10001), "23501").Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			err := service.submit(ctx, order)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_sync(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		order       func() domain.Order
		prepareMock func(m *mocks)
		wantErr     bool
	}{
		{
			name:  "Completed without refund",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Completed", StartCount: 120}, nil)
				m.runTx()
				m.orders.EXPECT().Transition(gomock.Any(), int64(10001), domain.OrderStatusCompleted, 120, 0).Return(true, nil)
			},
		},
		{
			name:  "Canceled refunds the full charge",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Canceled", Remains: 5000}, nil)
				m.runTx()
				m.orders.EXPECT().Transition(gomock.Any(), int64(10001), domain.OrderStatusCanceled, 0, 5000).Return(true, nil)
				m.refunder.EXPECT().Credit(gomock.Any(), 1, ptr(int64(10001)), amount("50.00"), "Refund for order #10001 (Canceled)").
					Return(decimal.RequireFromString("1000.00"), nil)
			},
		},
		{
			name:  "Partial refunds the undelivered share",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Partial", StartCount: 10, Remains: 1250}, nil)
				m.runTx()
				m.orders.EXPECT().Transition(gomock.Any(), int64(10001), domain.OrderStatusPartial, 10, 1250).Return(true, nil)
				m.refunder.EXPECT().Credit(gomock.Any(), 1, ptr(int64(10001)), amount("12.50"), "Refund for order #10001 (Partial)").
					Return(decimal.RequireFromString("962.50"), nil)
			},
		},
		{
			name:  "Already finalized order is not refunded twice",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Canceled", Remains: 5000}, nil)
				m.runTx()
				m.orders.EXPECT().Transition(gomock.Any(), int64(10001), domain.OrderStatusCanceled, 0, 5000).Return(false, nil)
			},
		},
		{
			name:  "Progress update",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Processing", StartCount: 100, Remains: 3000}, nil)
				m.runTx()
				m.orders.EXPECT().Transition(gomock.Any(), int64(10001), domain.OrderStatusProcessing, 100, 3000).Return(true, nil)
			},
		},
		{
			name:  "Provider Pending keeps a submitted order In progress",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Pending", Remains: 5000}, nil)
			},
		},
		{
			name: "Provider Pending with progress moves to In progress",
			order: func() domain.Order {
				o := openOrder()
				o.Status = domain.OrderStatusProcessing
				return o
			},
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Pending", StartCount: 40, Remains: 4000}, nil)
				m.runTx()
				m.orders.EXPECT().Transition(gomock.Any(), int64(10001), domain.OrderStatusInProgress, 40, 4000).Return(true, nil)
			},
		},
		{
			name:  "Unchanged order is left alone",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "In progress", Remains: 5000}, nil)
			},
		},
		{
			name:  "Unknown provider status is ignored",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Refunded"}, nil)
			},
		},
		{
			name: "Order without external id is skipped",
			order: func() domain.Order {
				o := openOrder()
				o.ExternalID = nil
				return o
			},
			prepareMock: func(m *mocks) {},
		},
		{
			name:  "Provider failure",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(nil, clients.ErrProvider)
			},
			wantErr: true,
		},
		{
			name:  "Credit failure rolls back the transition",
			order: openOrder,
			prepareMock: func(m *mocks) {
				m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "Canceled", Remains: 5000}, nil)
				m.runTx()
				m.orders.EXPECT().Transition(gomock.Any(), int64(10001), domain.OrderStatusCanceled, 0, 5000).Return(true, nil)
				m.refunder.EXPECT().Credit(gomock.Any(), 1, ptr(int64(10001)), amount("50.00"), gomock.Any()).
					Return(decimal.Zero, domain.ErrAccountNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			err := service.sync(ctx, tt.order())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRefundFor(t *testing.T) {
	order := openOrder()

	assert.True(t, refundFor(order, domain.OrderStatusCanceled, 5000).Equal(decimal.RequireFromString("50.00")))
	assert.True(t, refundFor(order, domain.OrderStatusPartial, 1).Equal(decimal.RequireFromString("0.01")))
	assert.True(t, refundFor(order, domain.OrderStatusCompleted, 0).IsZero())
	assert.True(t, refundFor(order, domain.OrderStatusProcessing, 300).IsZero())
}

func TestService_processOrders(t *testing.T) {
	ctx := context.Background()
	pending := openOrder()
	pending.OrderID = 10002
	pending.Status = domain.OrderStatusPending
	pending.ExternalID = nil

	t.Run("Submits pending and syncs open orders", func(t *testing.T) {
		service, m := NewMock(t)
		m.orders.EXPECT().FindForSubmission(ctx, batchLimit).Return([]domain.Order{pending}, nil)
		m.orders.EXPECT().FindOpen(ctx, batchLimit).Return([]domain.Order{openOrder()}, nil)
		m.provider.EXPECT().AddOrder(ctx, 1, pending.Link, pending.Quantity).Return("23502", nil)
		m.orders.EXPECT().SetExternalID(ctx, int64(10002), "23502").Return(true, nil)
		m.provider.EXPECT().Status(ctx, "23501").Return(&clients.OrderStatus{Status: "In progress", Remains: 5000}, nil)

		service.processOrders(ctx)
		service.workerPool.Close()
	})

	t.Run("Fetch errors are logged", func(t *testing.T) {
		service, m := NewMock(t)
		m.orders.EXPECT().FindForSubmission(ctx, batchLimit).Return(nil, errors.New("database error"))
		m.orders.EXPECT().FindOpen(ctx, batchLimit).Return(nil, errors.New("database error"))

		service.processOrders(ctx)
	})

	t.Run("Order already in flight is skipped", func(t *testing.T) {
		service, m := NewMock(t)
		service.processing.Store(int64(10002), struct{}{})
		m.orders.EXPECT().FindForSubmission(ctx, batchLimit).Return([]domain.Order{pending}, nil)
		m.orders.EXPECT().FindOpen(ctx, batchLimit).Return(nil, nil)

		service.processOrders(ctx)
		service.workerPool.Close()
	})
}

func TestService_Start(t *testing.T) {
	service, m := NewMock(t)
	m.orders.EXPECT().FindForSubmission(gomock.Any(), batchLimit).Return(nil, nil).AnyTimes()
	m.orders.EXPECT().FindOpen(gomock.Any(), batchLimit).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		service.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("service did not stop after cancel")
	}
}
