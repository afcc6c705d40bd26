package accountrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountRowColumns = []string{
	"id", "name", "email", "password_hash", "balance", "api_key", "referral_code", "referred_by",
	"referral_total", "referral_available",
	"referral_visits", "referral_registrations", "referral_conversions", "is_active", "created_at",
}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func ptr[T any](v T) *T { return &v }

func TestRepository_Find(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		where     string
		arg       any
		call      func() (*domain.Account, error)
		mockSetup func(query string, arg any)
		expectErr bool
		result    *domain.Account
	}{
		{
			name:  "By email returns account",
			where: "email = $1",
			arg:   "buyer@example.com",
			call: func() (*domain.Account, error) {
				return repo.FindByEmail(context.Background(), "buyer@example.com")
			},
			mockSetup: func(query string, arg any) {
				mock.ExpectQuery(query).WithArgs(arg).WillReturnRows(
					pgxmock.NewRows(accountRowColumns).AddRow(
						2, "Buyer", "buyer@example.com", "hash", "1000.00", (*string)(nil), "79927398713", ptr(1),
						"0.00", "0.00", 0, 0, 0, true, createdAt,
					),
				)
			},
			result: &domain.Account{
				ID:           2,
				Name:         "Buyer",
				Email:        "buyer@example.com",
				PasswordHash: "hash",
				Balance:      decimal.RequireFromString("1000.00"),
				ReferralCode: "79927398713",
				ReferredBy:   ptr(1),
				ReferralEarnings: domain.ReferralEarnings{
					Total:     decimal.RequireFromString("0.00"),
					Available: decimal.RequireFromString("0.00"),
				},
				IsActive:  true,
				CreatedAt: createdAt,
			},
		},
		{
			name:  "By api key returns account with stats",
			where: "api_key = $1",
			arg:   "key-1",
			call: func() (*domain.Account, error) {
				return repo.FindByAPIKey(context.Background(), "key-1")
			},
			mockSetup: func(query string, arg any) {
				mock.ExpectQuery(query).WithArgs(arg).WillReturnRows(
					pgxmock.NewRows(accountRowColumns).AddRow(
						1, "Referrer", "ref@example.com", "hash", "15.50", ptr("key-1"), "12345674", (*int)(nil),
						"7.25", "7.25", 10, 3, 2, true, createdAt,
					),
				)
			},
			result: &domain.Account{
				ID:           1,
				Name:         "Referrer",
				Email:        "ref@example.com",
				PasswordHash: "hash",
				Balance:      decimal.RequireFromString("15.50"),
				APIKey:       ptr("key-1"),
				ReferralCode: "12345674",
				ReferralEarnings: domain.ReferralEarnings{
					Total:     decimal.RequireFromString("7.25"),
					Available: decimal.RequireFromString("7.25"),
				},
				ReferralStats: domain.ReferralStats{Visits: 10, Registrations: 3, Conversions: 2},
				IsActive:      true,
				CreatedAt:     createdAt,
			},
		},
		{
			name:  "Unknown id returns nil",
			where: "id = $1",
			arg:   99,
			call: func() (*domain.Account, error) {
				return repo.FindByID(context.Background(), 99)
			},
			mockSetup: func(query string, arg any) {
				mock.ExpectQuery(query).WithArgs(arg).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:  "Database error",
			where: "referral_code = $1",
			arg:   "12345674",
			call: func() (*domain.Account, error) {
				return repo.FindByReferralCode(context.Background(), "12345674")
			},
			mockSetup: func(query string, arg any) {
				mock.ExpectQuery(query).WithArgs(arg).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup(regexp.QuoteMeta("FROM accounts WHERE "+tt.where), tt.arg)

			result, err := tt.call()

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`INSERT INTO accounts (name, email, password_hash, referral_code, referred_by) VALUES ($1, $2, $3, $4, $5) RETURNING id, is_active, created_at`)
	createdAt := time.Now()

	t.Run("Successfully creates account", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("Buyer", "buyer@example.com", "hash", "79927398713", ptr(1)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "is_active", "created_at"}).AddRow(2, true, createdAt))

		acc, err := repo.Create(context.Background(), &domain.Account{
			Name: "Buyer", Email: "buyer@example.com", PasswordHash: "hash", ReferralCode: "79927398713", ReferredBy: ptr(1),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, acc.ID)
		assert.True(t, acc.IsActive)
		assert.Equal(t, createdAt, acc.CreatedAt)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("Buyer", "buyer@example.com", "hash", "79927398713", (*int)(nil)).
			WillReturnError(errors.New("duplicate key"))

		acc, err := repo.Create(context.Background(), &domain.Account{
			Name: "Buyer", Email: "buyer@example.com", PasswordHash: "hash", ReferralCode: "79927398713",
		})

		assert.Error(t, err)
		assert.Nil(t, acc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetAPIKey(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE accounts SET api_key = $1 WHERE id = $2`)

	mock.ExpectExec(query).WithArgs("key-1", 1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.SetAPIKey(context.Background(), 1, "key-1"))

	mock.ExpectExec(query).WithArgs("key-2", 99).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.SetAPIKey(context.Background(), 99, "key-2"), domain.ErrAccountNotFound)

	mock.ExpectExec(query).WithArgs("key-3", 1).WillReturnError(errors.New("database error"))
	assert.Error(t, repo.SetAPIKey(context.Background(), 1, "key-3"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
