package referralrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	claimQuery = regexp.QuoteMeta(`
		UPDATE referral_commissions
		SET status = 'applied', applied_at = NOW()
		WHERE order_id = $1 AND status = 'pending'
		RETURNING referrer_id, amount::text`)
	creditQuery = regexp.QuoteMeta(`
		UPDATE accounts
		SET referral_total = referral_total + $1::numeric,
			referral_available = referral_available + $1::numeric,
			referral_conversions = referral_conversions + 1
		WHERE id = $2`)
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB, mockTxManager), mockDB, mockTxManager
}

func TestRepository_IncrementRegistrations(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE accounts SET referral_registrations = referral_registrations + 1 WHERE id = $1`)

	mock.ExpectExec(query).WithArgs(1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.IncrementRegistrations(context.Background(), 1))

	mock.ExpectExec(query).WithArgs(99).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.IncrementRegistrations(context.Background(), 99), domain.ErrAccountNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IncrementVisits(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE accounts SET referral_visits = referral_visits + 1 WHERE referral_code = $1 AND is_active`)

	mock.ExpectExec(query).WithArgs("79927398713").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	ok, err := repo.IncrementVisits(context.Background(), "79927398713")
	assert.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(query).WithArgs("0000").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	ok, err = repo.IncrementVisits(context.Background(), "0000")
	assert.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec(query).WithArgs("1").WillReturnError(errors.New("database error"))
	_, err = repo.IncrementVisits(context.Background(), "1")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RecordCommission(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`
		INSERT INTO referral_commissions (order_id, referrer_id, referred_id, amount, status)
		VALUES ($1, $2, $3, $4::numeric, 'pending')
		RETURNING created_at`)
	now := time.Now()

	mock.ExpectQuery(query).WithArgs(int64(10001), 1, 2, "2.50").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
	c := &domain.Commission{OrderID: 10001, ReferrerID: 1, ReferredID: 2, Amount: decimal.RequireFromString("2.5")}
	require.NoError(t, repo.RecordCommission(context.Background(), c))
	assert.Equal(t, domain.CommissionPending, c.Status)
	assert.Equal(t, now, c.CreatedAt)

	mock.ExpectQuery(query).WithArgs(int64(10001), 1, 2, "2.50").WillReturnError(errors.New("duplicate key"))
	assert.Error(t, repo.RecordCommission(context.Background(), c))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RecordCommissions(t *testing.T) {
	repo, mock, _ := NewMock(t)
	commissions := []domain.Commission{
		{OrderID: 10001, ReferrerID: 1, ReferredID: 2, Amount: decimal.RequireFromString("2.50")},
		{OrderID: 10002, ReferrerID: 1, ReferredID: 2, Amount: decimal.RequireFromString("0.10")},
	}

	mock.ExpectCopyFrom(pgx.Identifier{"referral_commissions"}, commissionColumns).WillReturnResult(2)
	assert.NoError(t, repo.RecordCommissions(context.Background(), commissions))

	mock.ExpectCopyFrom(pgx.Identifier{"referral_commissions"}, commissionColumns).WillReturnResult(1)
	assert.ErrorContains(t, repo.RecordCommissions(context.Background(), commissions), "inserted 1 of 2")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ApplyCommission(t *testing.T) {
	repo, mock, tx := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		applied   bool
		expectErr error
	}{
		{
			name: "Pending commission is applied",
			mockSetup: func() {
				mock.ExpectQuery(claimQuery).WithArgs(int64(10001)).
					WillReturnRows(pgxmock.NewRows([]string{"referrer_id", "amount"}).AddRow(1, "2.50"))
				mock.ExpectExec(creditQuery).WithArgs("2.50", 1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			applied: true,
		},
		{
			name: "Already applied commission is not credited again",
			mockSetup: func() {
				mock.ExpectQuery(claimQuery).WithArgs(int64(10001)).WillReturnError(pgx.ErrNoRows)
			},
			applied: false,
		},
		{
			name: "Credit failure is returned",
			mockSetup: func() {
				mock.ExpectQuery(claimQuery).WithArgs(int64(10001)).
					WillReturnRows(pgxmock.NewRows([]string{"referrer_id", "amount"}).AddRow(1, "2.50"))
				mock.ExpectExec(creditQuery).WithArgs("2.50", 1).WillReturnError(errors.New("deadlock"))
			},
			expectErr: errors.New("deadlock"),
		},
		{
			name: "Missing referrer",
			mockSetup: func() {
				mock.ExpectQuery(claimQuery).WithArgs(int64(10001)).
					WillReturnRows(pgxmock.NewRows([]string{"referrer_id", "amount"}).AddRow(7, "2.50"))
				mock.ExpectExec(creditQuery).WithArgs("2.50", 7).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
				tt.mockSetup()
				return fn(ctx)
			})

			applied, err := repo.ApplyCommission(context.Background(), 10001)

			if tt.expectErr != nil {
				assert.EqualError(t, err, tt.expectErr.Error())
				assert.False(t, applied)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.applied, applied)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindPending(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`FROM referral_commissions WHERE status = 'pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2`)
	before := time.Now().Add(-time.Minute)

	mock.ExpectQuery(query).WithArgs(before, 100).WillReturnRows(
		pgxmock.NewRows([]string{"order_id", "referrer_id", "referred_id", "amount", "created_at"}).
			AddRow(int64(10001), 1, 2, "2.50", before.Add(-time.Hour)),
	)

	pending, err := repo.FindPending(context.Background(), before, 100)

	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(10001), pending[0].OrderID)
	assert.Equal(t, "2.50", domain.FormatMoney(pending[0].Amount))
	assert.Equal(t, domain.CommissionPending, pending[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
