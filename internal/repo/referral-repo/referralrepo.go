package referralrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var commissionColumns = []string{"order_id", "referrer_id", "referred_id", "amount", "status"}

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) IncrementRegistrations(ctx context.Context, referrerID int) error {
	query := `UPDATE accounts SET referral_registrations = referral_registrations + 1 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, referrerID)
	if err != nil {
		zap.L().Error("failed to count registration", zap.Int("referrer_id", referrerID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// IncrementVisits counts a visit of the referral link; false means the code is unknown.
func (r *Repository) IncrementVisits(ctx context.Context, code string) (bool, error) {
	query := `UPDATE accounts SET referral_visits = referral_visits + 1 WHERE referral_code = $1 AND is_active`
	tag, err := r.db.Exec(ctx, query, code)
	if err != nil {
		zap.L().Error("failed to count visit", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// RecordCommission stores a pending commission. It runs in the order's transaction.
func (r *Repository) RecordCommission(ctx context.Context, c *domain.Commission) error {
	query := `
		INSERT INTO referral_commissions (order_id, referrer_id, referred_id, amount, status)
		VALUES ($1, $2, $3, $4::numeric, 'pending')
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, c.OrderID, c.ReferrerID, c.ReferredID, domain.FormatMoney(c.Amount)).Scan(&c.CreatedAt)
	if err != nil {
		zap.L().Error("can't save commission", zap.Int64("order_id", c.OrderID), zap.Error(err))
		return err
	}
	c.Status = domain.CommissionPending
	return nil
}

func (r *Repository) RecordCommissions(ctx context.Context, commissions []domain.Commission) error {
	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"referral_commissions"}, commissionColumns,
		pgx.CopyFromSlice(len(commissions), func(i int) ([]any, error) {
			c := commissions[i]
			return []any{c.OrderID, c.ReferrerID, c.ReferredID, pg.Numeric(c.Amount), string(domain.CommissionPending)}, nil
		}),
	)
	if err != nil {
		zap.L().Error("can't copy commissions", zap.Int("count", len(commissions)), zap.Error(err))
		return err
	}
	if n != int64(len(commissions)) {
		return fmt.Errorf("copy commissions: inserted %d of %d", n, len(commissions))
	}
	return nil
}

// ApplyCommission moves the order's commission from pending to applied and credits the
// referrer in the same transaction. It reports false when there is nothing pending,
// so a commission is credited at most once however often it is applied.
func (r *Repository) ApplyCommission(ctx context.Context, orderID int64) (bool, error) {
	claim := `
		UPDATE referral_commissions
		SET status = 'applied', applied_at = NOW()
		WHERE order_id = $1 AND status = 'pending'
		RETURNING referrer_id, amount::text
	`
	credit := `
		UPDATE accounts
		SET referral_total = referral_total + $1::numeric,
			referral_available = referral_available + $1::numeric,
			referral_conversions = referral_conversions + 1
		WHERE id = $2
	`
	applied := false
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		var (
			referrerID int
			amount     string
		)
		err := r.db.QueryRow(ctx, claim, orderID).Scan(&referrerID, &amount)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			zap.L().Error("failed to claim commission", zap.Int64("order_id", orderID), zap.Error(err))
			return err
		}
		tag, err := r.db.Exec(ctx, credit, amount, referrerID)
		if err != nil {
			zap.L().Error("failed to credit referrer", zap.Int("referrer_id", referrerID), zap.Error(err))
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAccountNotFound
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// FindPending returns commissions still pending since before the given time, oldest first.
func (r *Repository) FindPending(ctx context.Context, before time.Time, limit int) ([]domain.Commission, error) {
	query := `
        SELECT order_id, referrer_id, referred_id, amount::text, created_at
        FROM referral_commissions
        WHERE status = 'pending' AND created_at < $1
        ORDER BY created_at ASC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, before, limit)
	if err != nil {
		zap.L().Error("can't get pending commissions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	commissions := make([]domain.Commission, 0)
	for rows.Next() {
		var (
			c      domain.Commission
			amount string
		)
		if err := rows.Scan(&c.OrderID, &c.ReferrerID, &c.ReferredID, &amount, &c.CreatedAt); err != nil {
			zap.L().Error("can't scan commission row", zap.Error(err))
			return nil, err
		}
		if c.Amount, err = pg.Decimal(amount); err != nil {
			return nil, err
		}
		c.Status = domain.CommissionPending
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}
