package balanceservice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
)

type BalanceRepo interface {
	GetBalance(ctx context.Context, accountID int) (decimal.Decimal, error)
	Credit(ctx context.Context, accountID int, amount decimal.Decimal) (decimal.Decimal, error)
}

type LedgerRepo interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	ListByAccount(ctx context.Context, accountID, limit, offset int) ([]domain.LedgerEntry, int, error)
}

type Service struct {
	balanceRepo BalanceRepo
	ledgerRepo  LedgerRepo
	txManager   pg.TXManager
}

func New(balanceRepo BalanceRepo, ledgerRepo LedgerRepo, txManager pg.TXManager) *Service {
	return &Service{
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
	}
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

func (s *Service) GetBalance(ctx context.Context, accountID int) (decimal.Decimal, error) {
	balance, err := s.balanceRepo.GetBalance(ctx, accountID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

// Credit adds amount to the balance and records it in the ledger. Called inside a
// transaction it joins it.
func (s *Service) Credit(ctx context.Context, accountID int, orderID *int64, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.Validationf("credit amount must be positive")
	}
	var balance decimal.Decimal
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.balanceRepo.Credit(ctx, accountID, amount)
		if err != nil {
			return err
		}
		return s.ledgerRepo.Create(ctx, &domain.LedgerEntry{
			AccountID:    accountID,
			OrderID:      orderID,
			Kind:         domain.LedgerCredit,
			Amount:       amount,
			BalanceAfter: balance,
			Description:  description,
		})
	})
	if err != nil {
		zap.L().Error("failed to credit balance", zap.Int("account_id", accountID), zap.Error(err))
		return decimal.Zero, err
	}
	zap.L().Info("balance credited",
		zap.Int("account_id", accountID),
		zap.String("amount", domain.FormatMoney(amount)),
		zap.String("description", description),
	)
	return balance, nil
}

func (s *Service) GetTransactions(ctx context.Context, accountID, page, limit int) (*domain.Page[domain.LedgerEntry], error) {
	if err := domain.CheckPage(page); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	entries, total, err := s.ledgerRepo.ListByAccount(ctx, accountID, limit, (page-1)*limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return domain.NewPage(entries, total, page, limit), nil
}
