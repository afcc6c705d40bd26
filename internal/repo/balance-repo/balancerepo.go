package balancerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, TxManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: TxManager,
	}
}

func (r *Repository) GetBalance(ctx context.Context, accountID int) (decimal.Decimal, error) {
	query := `
        SELECT balance::text
        FROM accounts
        WHERE id = $1
    `
	var balance string
	err := r.db.QueryRow(ctx, query, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}
		zap.L().Error("failed to get balance", zap.Int("account_id", accountID), zap.Error(err))
		return decimal.Zero, err
	}
	return pg.Decimal(balance)
}

// Debit subtracts amount only while the balance covers it and returns the new balance.
// A concurrent debit that got there first leaves no row to update: ErrInsufficientBalance.
func (r *Repository) Debit(ctx context.Context, accountID int, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance - $1::numeric
		WHERE id = $2 AND balance >= $1::numeric
		RETURNING balance::text
	`
	var balance string
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query, domain.FormatMoney(amount), accountID).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrInsufficientBalance
			}
			zap.L().Error("failed to debit balance", zap.Int("account_id", accountID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return pg.Decimal(balance)
}

func (r *Repository) Credit(ctx context.Context, accountID int, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1::numeric
		WHERE id = $2
		RETURNING balance::text
	`
	var balance string
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query, domain.FormatMoney(amount), accountID).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrAccountNotFound
			}
			zap.L().Error("failed to credit balance", zap.Int("account_id", accountID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return pg.Decimal(balance)
}
