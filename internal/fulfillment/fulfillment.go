package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/metrics"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/GlebRadaev/smmpanel/pkg/clients"
	"github.com/GlebRadaev/smmpanel/pkg/workerpool"
)

const (
	batchLimit = 500
	poolSize   = 10
)

var errFinalized = errors.New("order already finalized")

type OrderRepo interface {
	FindForSubmission(ctx context.Context, limit int) ([]domain.Order, error)
	FindOpen(ctx context.Context, limit int) ([]domain.Order, error)
	SetExternalID(ctx context.Context, orderID int64, externalID string) (bool, error)
	Transition(ctx context.Context, orderID int64, status domain.OrderStatus, startCount, remains int) (bool, error)
}

type Refunder interface {
	Credit(ctx context.Context, accountID int, orderID *int64, amount decimal.Decimal, description string) (decimal.Decimal, error)
}

type Provider interface {
	AddOrder(ctx context.Context, serviceID int, link string, quantity int) (string, error)
	Status(ctx context.Context, externalID string) (*clients.OrderStatus, error)
}

// Service hands pending orders to the upstream provider and mirrors their progress back,
// refunding what the provider did not deliver.
type Service struct {
	orderRepo      OrderRepo
	refunder       Refunder
	provider       Provider
	txManager      pg.TXManager
	workerPool     *workerpool.WorkerPool
	limit          int
	updateInterval time.Duration

	processing sync.Map
}

func New(orderRepo OrderRepo, refunder Refunder, provider Provider, txManager pg.TXManager, updateInterval time.Duration) *Service {
	return &Service{
		orderRepo:      orderRepo,
		refunder:       refunder,
		provider:       provider,
		txManager:      txManager,
		workerPool:     workerpool.New(poolSize),
		limit:          batchLimit,
		updateInterval: updateInterval,
	}
}

// Start blocks until ctx is canceled.
func (s *Service) Start(ctx context.Context) {
	zap.L().Info("fulfillment service started", zap.Duration("interval", s.updateInterval))
	defer s.workerPool.Close()

	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping fulfillment service")
			return
		case <-ticker.C:
			s.processOrders(ctx)
		}
	}
}

func (s *Service) processOrders(ctx context.Context) {
	pending, err := s.orderRepo.FindForSubmission(ctx, s.limit)
	if err != nil {
		zap.L().Error("failed to fetch orders for submission", zap.Error(err))
	}
	open, err := s.orderRepo.FindOpen(ctx, s.limit)
	if err != nil {
		zap.L().Error("failed to fetch open orders", zap.Error(err))
	}

	var g errgroup.Group
	for _, order := range pending {
		s.dispatch(ctx, &g, order, s.submit)
	}
	for _, order := range open {
		s.dispatch(ctx, &g, order, s.sync)
	}
	if err := g.Wait(); err != nil {
		zap.L().Error("error processing orders", zap.Error(err))
	}
}

func (s *Service) dispatch(ctx context.Context, g *errgroup.Group, order domain.Order, handle func(context.Context, domain.Order) error) {
	if _, loaded := s.processing.LoadOrStore(order.OrderID, struct{}{}); loaded {
		return
	}
	g.Go(func() error {
		err := s.workerPool.AddTask(ctx, func() error {
			defer s.processing.Delete(order.OrderID)
			return handle(ctx, order)
		})
		if err != nil {
			s.processing.Delete(order.OrderID)
			return err
		}
		return nil
	})
}

// submit places the order upstream. A failed call leaves it Pending for the next tick.
func (s *Service) submit(ctx context.Context, order domain.Order) error {
	externalID, err := s.provider.AddOrder(ctx, order.ServiceID, order.Link, order.Quantity)
	if err != nil {
		metrics.FulfillmentRequests.WithLabelValues("add", "error").Inc()
		return fmt.Errorf("submit order %d: %w", order.OrderID, err)
	}
	metrics.FulfillmentRequests.WithLabelValues("add", "ok").Inc()

	stored, err := s.orderRepo.SetExternalID(ctx, order.OrderID, externalID)
	if err != nil {
		return fmt.Errorf("store external id of order %d: %w", order.OrderID, err)
	}
	if !stored {
		zap.L().Warn("order already submitted", zap.Int64("order_id", order.OrderID), zap.String("external_id", externalID))
		return nil
	}
	zap.L().Info("order submitted", zap.Int64("order_id", order.OrderID), zap.String("external_id", externalID))
	return nil
}

func (s *Service) sync(ctx context.Context, order domain.Order) error {
	if order.ExternalID == nil {
		return nil
	}
	st, err := s.provider.Status(ctx, *order.ExternalID)
	if err != nil {
		metrics.FulfillmentRequests.WithLabelValues("status", "error").Inc()
		return fmt.Errorf("status of order %d: %w", order.OrderID, err)
	}
	metrics.FulfillmentRequests.WithLabelValues("status", "ok").Inc()

	status, ok := domain.ParseOrderStatus(st.Status)
	if !ok {
		zap.L().Warn("unrecognized provider status", zap.Int64("order_id", order.OrderID), zap.String("status", st.Status))
		return nil
	}
	// A submitted order never goes back to Pending, the open-order scan would lose it.
	if status == domain.OrderStatusPending {
		status = domain.OrderStatusInProgress
	}
	startCount, remains := int(st.StartCount), int(st.Remains)
	if status == order.Status && startCount == order.StartCount && remains == order.Remains {
		return nil
	}
	return s.apply(ctx, order, status, startCount, remains)
}

func refundFor(order domain.Order, status domain.OrderStatus, remains int) decimal.Decimal {
	switch status {
	case domain.OrderStatusCanceled:
		return order.Charge
	case domain.OrderStatusPartial:
		return domain.Refund(order.Charge, order.Quantity, remains)
	default:
		return decimal.Zero
	}
}

// apply moves the order to status and credits the refund in one transaction. The conditional
// transition makes a terminal status, and so its refund, happen once.
func (s *Service) apply(ctx context.Context, order domain.Order, status domain.OrderStatus, startCount, remains int) error {
	refund := refundFor(order, status, remains)

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		moved, err := s.orderRepo.Transition(ctx, order.OrderID, status, startCount, remains)
		if err != nil {
			return err
		}
		if !moved {
			return errFinalized
		}
		if !refund.IsPositive() {
			return nil
		}
		_, err = s.refunder.Credit(ctx, order.AccountID, &order.OrderID, refund,
			fmt.Sprintf("Refund for order #%d (%s)", order.OrderID, status))
		return err
	})
	switch {
	case errors.Is(err, errFinalized):
		zap.L().Info("order already finalized", zap.Int64("order_id", order.OrderID))
		return nil
	case err != nil:
		return fmt.Errorf("update order %d: %w", order.OrderID, err)
	}

	if refund.IsPositive() {
		metrics.Refunds.WithLabelValues(string(status)).Inc()
	}
	zap.L().Info("order updated",
		zap.Int64("order_id", order.OrderID),
		zap.String("status", string(status)),
		zap.Int("remains", remains),
		zap.String("refund", domain.FormatMoney(refund)),
	)
	return nil
}
