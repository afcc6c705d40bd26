package accountrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const accountColumns = `id, name, email, password_hash, balance::text, api_key, referral_code, referred_by,
	referral_total::text, referral_available::text,
	referral_visits, referral_registrations, referral_conversions, is_active, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		acc                       domain.Account
		balance, total, available string
	)
	err := row.Scan(
		&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &balance, &acc.APIKey, &acc.ReferralCode, &acc.ReferredBy,
		&total, &available,
		&acc.ReferralStats.Visits, &acc.ReferralStats.Registrations, &acc.ReferralStats.Conversions,
		&acc.IsActive, &acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if acc.Balance, err = pg.Decimal(balance); err != nil {
		return nil, err
	}
	if acc.ReferralEarnings.Total, err = pg.Decimal(total); err != nil {
		return nil, err
	}
	if acc.ReferralEarnings.Available, err = pg.Decimal(available); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (repo *Repository) findOne(ctx context.Context, where string, arg any) (*domain.Account, error) {
	acc, err := scanAccount(repo.db.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find account", zap.String("by", where), zap.Error(err))
		return nil, err
	}
	return acc, nil
}

func (repo *Repository) FindByID(ctx context.Context, id int) (*domain.Account, error) {
	return repo.findOne(ctx, "id = $1", id)
}

func (repo *Repository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return repo.findOne(ctx, "email = $1", email)
}

func (repo *Repository) FindByAPIKey(ctx context.Context, key string) (*domain.Account, error) {
	return repo.findOne(ctx, "api_key = $1", key)
}

func (repo *Repository) FindByReferralCode(ctx context.Context, code string) (*domain.Account, error) {
	return repo.findOne(ctx, "referral_code = $1", code)
}

func (repo *Repository) Create(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (name, email, password_hash, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at
	`
	err := repo.db.QueryRow(ctx, query, acc.Name, acc.Email, acc.PasswordHash, acc.ReferralCode, acc.ReferredBy).
		Scan(&acc.ID, &acc.IsActive, &acc.CreatedAt)
	if err != nil {
		zap.L().Error("can't save account", zap.Error(err))
		return nil, err
	}
	return acc, nil
}

func (repo *Repository) SetAPIKey(ctx context.Context, id int, key string) error {
	tag, err := repo.db.Exec(ctx, "UPDATE accounts SET api_key = $1 WHERE id = $2", key, id)
	if err != nil {
		zap.L().Error("can't set api key", zap.Int("account_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
