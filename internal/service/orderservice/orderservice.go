package orderservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/metrics"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/GlebRadaev/smmpanel/pkg/validate"
)

type CatalogRepo interface {
	FindByServiceID(ctx context.Context, serviceID int) (*domain.Service, error)
}

type AccountRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Account, error)
}

type BalanceRepo interface {
	Debit(ctx context.Context, accountID int, amount decimal.Decimal) (decimal.Decimal, error)
}

type LedgerRepo interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
}

type OrderRepo interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateBatch(ctx context.Context, orders []domain.Order) error
	FindByID(ctx context.Context, accountID int, orderID int64) (*domain.Order, error)
	Exists(ctx context.Context, orderID int64) (bool, error)
	List(ctx context.Context, accountID int, filter domain.OrderFilter) ([]domain.Order, int, error)
}

type SequenceRepo interface {
	Next(ctx context.Context, name string, n int, floor int64) (int64, error)
}

type ReferralRepo interface {
	RecordCommission(ctx context.Context, c *domain.Commission) error
	RecordCommissions(ctx context.Context, commissions []domain.Commission) error
	ApplyCommission(ctx context.Context, orderID int64) (bool, error)
}

type Publisher interface {
	PublishOrders(ctx context.Context, orders []domain.Order) error
}

type Deps struct {
	Catalog   CatalogRepo
	Accounts  AccountRepo
	Balance   BalanceRepo
	Ledger    LedgerRepo
	Orders    OrderRepo
	Sequence  SequenceRepo
	Referrals ReferralRepo
	TxManager pg.TXManager
	Publisher Publisher
}

type Options struct {
	// CommissionRate is the referrer's share of a charge, in percent.
	CommissionRate decimal.Decimal
	OrderIDFloor   int64
	MaxRetries     int
	RetryInterval  time.Duration
	// ResolveTimeout bounds the lookup that settles a commit with an unknown outcome.
	ResolveTimeout time.Duration
}

const (
	defaultPage   = 1
	defaultLimit  = 50
	maxLimit      = 100
	maxMassLookup = 8
)

type Service struct {
	catalog   CatalogRepo
	accounts  AccountRepo
	balance   BalanceRepo
	ledger    LedgerRepo
	orders    OrderRepo
	sequence  SequenceRepo
	referrals ReferralRepo
	txManager pg.TXManager
	publisher Publisher
	opts      Options
}

func New(deps Deps, opts Options) *Service {
	if opts.OrderIDFloor <= 0 {
		opts.OrderIDFloor = 10001
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.ResolveTimeout <= 0 {
		opts.ResolveTimeout = 5 * time.Second
	}
	return &Service{
		catalog:   deps.Catalog,
		accounts:  deps.Accounts,
		balance:   deps.Balance,
		ledger:    deps.Ledger,
		orders:    deps.Orders,
		sequence:  deps.Sequence,
		referrals: deps.Referrals,
		txManager: deps.TxManager,
		publisher: deps.Publisher,
		opts:      opts,
	}
}

// PlaceOrder buys quantity units of a service for the account: it debits the charge and
// stores a Pending order in one transaction, then credits the referrer's commission.
func (s *Service) PlaceOrder(ctx context.Context, accountID, serviceID int, link string, quantity int) (*domain.Order, error) {
	order, err := s.placeOrder(ctx, accountID, serviceID, link, quantity)
	if err != nil {
		metrics.OrderFailures.WithLabelValues(domain.Code(err)).Inc()
		zap.L().Info("order rejected", zap.Int("account_id", accountID), zap.Int("service_id", serviceID), zap.Error(err))
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues("single").Inc()
	zap.L().Info("order placed",
		zap.Int64("order_id", order.OrderID),
		zap.Int("account_id", accountID),
		zap.String("charge", domain.FormatMoney(order.Charge)),
	)
	return order, nil
}

func (s *Service) placeOrder(ctx context.Context, accountID, serviceID int, link string, quantity int) (*domain.Order, error) {
	if !validate.IsLink(link) {
		return nil, domain.Validationf("link must be a valid http or https URL")
	}
	if quantity <= 0 {
		return nil, domain.Validationf("quantity must be positive")
	}
	svc, err := s.resolveService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if quantity < svc.Min || quantity > svc.Max {
		return nil, &domain.QuantityOutOfRangeError{Min: svc.Min, Max: svc.Max}
	}
	charge := domain.Charge(quantity, svc.Rate)

	var (
		buyer  *domain.Account
		orders []domain.Order
	)
	err = s.withRetry(ctx, func() error {
		acc, err := s.loadBuyer(ctx, accountID, charge)
		if err != nil {
			return err
		}
		first, err := s.allocate(ctx, 1)
		if err != nil {
			return err
		}
		buyer = acc
		orders = []domain.Order{newOrder(first, accountID, svc, link, quantity, charge)}
		return s.commit(ctx, acc, orders, charge)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, buyer, orders)
	return &orders[0], nil
}

func (s *Service) resolveService(ctx context.Context, serviceID int) (*domain.Service, error) {
	svc, err := s.catalog.FindByServiceID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if svc == nil {
		return nil, domain.ErrServiceNotFound
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceInactive
	}
	return svc, nil
}

// loadBuyer checks the balance before anything is allocated or written.
// The debit re-checks it atomically.
func (s *Service) loadBuyer(ctx context.Context, accountID int, total decimal.Decimal) (*domain.Account, error) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if acc == nil || !acc.IsActive {
		return nil, domain.ErrAccountNotFound
	}
	if acc.Balance.LessThan(total) {
		return nil, domain.ErrInsufficientBalance
	}
	return acc, nil
}

func (s *Service) allocate(ctx context.Context, n int) (int64, error) {
	first, err := s.sequence.Next(ctx, domain.OrderSequence, n, s.opts.OrderIDFloor)
	if err != nil {
		return 0, classify(err)
	}
	return first, nil
}

func newOrder(id int64, accountID int, svc *domain.Service, link string, quantity int, charge decimal.Decimal) domain.Order {
	return domain.Order{
		OrderID:    id,
		AccountID:  accountID,
		ServiceRef: svc.ID,
		ServiceID:  svc.ServiceID,
		Link:       link,
		Quantity:   quantity,
		Charge:     charge,
		Remains:    quantity,
		Status:     domain.OrderStatusPending,
	}
}

// commit debits total and stores the orders, their ledger entry and pending commissions
// in a single transaction.
func (s *Service) commit(ctx context.Context, acc *domain.Account, orders []domain.Order, total decimal.Decimal) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		balance, err := s.balance.Debit(ctx, acc.ID, total)
		if err != nil {
			return err
		}

		entry := &domain.LedgerEntry{
			AccountID:    acc.ID,
			Kind:         domain.LedgerDebit,
			Amount:       total,
			BalanceAfter: balance,
		}
		if len(orders) == 1 {
			if err := s.orders.Create(ctx, &orders[0]); err != nil {
				return err
			}
			entry.OrderID = &orders[0].OrderID
			entry.Description = fmt.Sprintf("Order #%d", orders[0].OrderID)
		} else {
			if err := s.orders.CreateBatch(ctx, orders); err != nil {
				return err
			}
			entry.Description = fmt.Sprintf("Mass order #%d-#%d (%d orders)",
				orders[0].OrderID, orders[len(orders)-1].OrderID, len(orders))
		}
		if err := s.ledger.Create(ctx, entry); err != nil {
			return err
		}

		if acc.ReferredBy == nil {
			return nil
		}
		return s.recordCommissions(ctx, acc, orders)
	})
	if err == nil {
		return nil
	}
	if pg.IsConflict(err) {
		return classify(err)
	}
	if errors.Is(err, pg.ErrCommitFailed) {
		return s.resolveCommit(ctx, orders[0].OrderID, err)
	}
	return classify(err)
}

func (s *Service) recordCommissions(ctx context.Context, acc *domain.Account, orders []domain.Order) error {
	commissions := make([]domain.Commission, 0, len(orders))
	for _, o := range orders {
		commissions = append(commissions, domain.Commission{
			OrderID:    o.OrderID,
			ReferrerID: *acc.ReferredBy,
			ReferredID: acc.ID,
			Amount:     domain.CommissionAmount(o.Charge, s.opts.CommissionRate),
			Status:     domain.CommissionPending,
		})
	}
	if len(commissions) == 1 {
		return s.referrals.RecordCommission(ctx, &commissions[0])
	}
	return s.referrals.RecordCommissions(ctx, commissions)
}

// resolveCommit settles a commit whose outcome is unknown by looking for the first order
// with a context the caller can no longer cancel.
func (s *Service) resolveCommit(ctx context.Context, firstID int64, commitErr error) error {
	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ResolveTimeout)
	defer cancel()

	exists, err := s.orders.Exists(checkCtx, firstID)
	if err != nil {
		zap.L().Error("order outcome unknown", zap.Int64("order_id", firstID), zap.NamedError("commit_error", commitErr), zap.Error(err))
		return fmt.Errorf("%w: order %d: %w", domain.ErrReconciliationRequired, firstID, commitErr)
	}
	if exists {
		zap.L().Warn("commit reported failure but order is stored", zap.Int64("order_id", firstID), zap.Error(commitErr))
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, commitErr)
}

// classify maps storage errors onto domain errors; domain errors pass through.
func classify(err error) error {
	if pg.IsConflict(err) {
		return fmt.Errorf("%w: %w", domain.ErrConcurrencyConflict, err)
	}
	if domain.Code(err) == domain.CodeInternal {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return err
}

// withRetry repeats fn while it fails with a concurrency conflict, backing off exponentially.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.OrderRetries.Inc()
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", domain.ErrPersistence, ctx.Err())
			case <-time.After(s.opts.RetryInterval << (attempt - 1)):
			}
		}
		err = fn()
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		zap.L().Warn("order placement conflict", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return err
}

// afterCommit credits referral commissions and announces the orders. Neither can fail the
// placement: a commission that is not applied stays pending for the reconciler.
func (s *Service) afterCommit(ctx context.Context, buyer *domain.Account, orders []domain.Order) {
	ctx = context.WithoutCancel(ctx)
	if buyer.ReferredBy != nil {
		s.applyCommissions(ctx, orders)
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrders(ctx, orders); err != nil {
		zap.L().Warn("can't publish placed orders", zap.Int("account_id", buyer.ID), zap.Int("count", len(orders)), zap.Error(err))
	}
}

func (s *Service) applyCommissions(ctx context.Context, orders []domain.Order) {
	for _, o := range orders {
		applied, err := s.referrals.ApplyCommission(ctx, o.OrderID)
		if err != nil {
			metrics.CommissionFailures.Inc()
			zap.L().Warn("commission left pending",
				zap.Int64("order_id", o.OrderID),
				zap.Error(fmt.Errorf("%w: %w", domain.ErrPartialCommission, err)),
			)
			continue
		}
		if applied {
			metrics.CommissionsApplied.Inc()
		}
	}
}

func (s *Service) GetOrder(ctx context.Context, accountID int, orderID int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, accountID, orderID)
	if err != nil {
		zap.L().Error("failed to get order", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, accountID int, filter domain.OrderFilter) (*domain.Page[domain.Order], error) {
	if filter.Status != "" && filter.Status != "all" {
		if _, ok := domain.ParseOrderStatus(filter.Status); !ok {
			return nil, domain.Validationf("unknown status %q", filter.Status)
		}
	}
	if err := domain.CheckPage(filter.Page); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	orders, total, err := s.orders.List(ctx, accountID, filter)
	if err != nil {
		zap.L().Error("failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return domain.NewPage(orders, total, filter.Page, filter.Limit), nil
}
