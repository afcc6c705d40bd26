package ledgerrepo

import (
	"context"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// Create records a balance mutation. It must run in the transaction that mutated the balance.
func (r *Repository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (account_id, order_id, kind, amount, balance_after, description)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		entry.AccountID, entry.OrderID, string(entry.Kind),
		domain.FormatMoney(entry.Amount), domain.FormatMoney(entry.BalanceAfter), entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		zap.L().Error("can't save ledger entry", zap.Int("account_id", entry.AccountID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) ListByAccount(ctx context.Context, accountID, limit, offset int) ([]domain.LedgerEntry, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`, accountID).Scan(&total); err != nil {
		zap.L().Error("failed to count ledger entries", zap.Error(err))
		return nil, 0, err
	}

	query := `
        SELECT id, account_id, order_id, kind, amount::text, balance_after::text, description, created_at
        FROM ledger_entries
        WHERE account_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		zap.L().Error("failed to fetch ledger entries", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var (
			e             domain.LedgerEntry
			kind          string
			amount, after string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.OrderID, &kind, &amount, &after, &e.Description, &e.CreatedAt); err != nil {
			zap.L().Error("failed to scan ledger entry row", zap.Error(err))
			return nil, 0, err
		}
		e.Kind = domain.LedgerKind(kind)
		if e.Amount, err = pg.Decimal(amount); err != nil {
			return nil, 0, err
		}
		if e.BalanceAfter, err = pg.Decimal(after); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
