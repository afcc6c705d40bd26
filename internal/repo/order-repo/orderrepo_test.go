package orderrepo

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

var orderRowColumns = []string{
	"order_id", "account_id", "service_ref", "service_id", "link", "quantity", "charge",
	"start_count", "remains", "status", "external_id", "created_at", "updated_at",
}

var orderViewRowColumns = append(append([]string{}, orderRowColumns...), "service_name", "service_category")

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func pendingOrder(id int64) domain.Order {
	return domain.Order{
		OrderID:    id,
		AccountID:  1,
		ServiceRef: 3,
		ServiceID:  101,
		Link:       "https://instagram.com/p/abc",
		Quantity:   5000,
		Charge:     decimal.RequireFromString("50.00"),
		Remains:    5000,
		Status:     domain.OrderStatusPending,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        INSERT INTO orders (order_id, account_id, service_ref, service_id, link, quantity, charge, remains, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9)
        RETURNING created_at, updated_at`)
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully saves order",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(int64(10001), 1, 3, 101, "https://instagram.com/p/abc", 5000, "50.00", 5000, "Pending").
					WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
			},
		},
		{
			name: "Duplicate order id",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(int64(10001), 1, 3, 101, "https://instagram.com/p/abc", 5000, "50.00", 5000, "Pending").
					WillReturnError(errors.New("duplicate key value violates unique constraint"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			order := pendingOrder(10001)

			err := repo.Create(context.Background(), &order)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, now, order.CreatedAt)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBatch(t *testing.T) {
	repo, mock := NewMock(t)
	orders := []domain.Order{pendingOrder(10001), pendingOrder(10002), pendingOrder(10003)}

	mock.ExpectCopyFrom(pgx.Identifier{"orders"}, copyColumns).WillReturnResult(3)
	assert.NoError(t, repo.CreateBatch(context.Background(), orders))

	mock.ExpectCopyFrom(pgx.Identifier{"orders"}, copyColumns).WillReturnResult(2)
	assert.ErrorContains(t, repo.CreateBatch(context.Background(), orders), "inserted 2 of 3")

	mock.ExpectCopyFrom(pgx.Identifier{"orders"}, copyColumns).WillReturnError(errors.New("database error"))
	assert.Error(t, repo.CreateBatch(context.Background(), orders))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`FROM orders o LEFT JOIN services s ON s.id = o.service_ref WHERE o.order_id = $1 AND o.account_id = $2`)
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(int64(10001), 1).WillReturnRows(
			pgxmock.NewRows(orderViewRowColumns).AddRow(
				int64(10001), 1, 3, 101, "https://instagram.com/p/abc", 5000, "50.00", 120, 4000, "Processing",
				func() *string { s := "ext-77"; return &s }(), now, now, "Instagram Followers", "Instagram",
			),
		)

		order, err := repo.FindByID(context.Background(), 1, 10001)

		require.NoError(t, err)
		assert.Equal(t, "Instagram Followers", order.ServiceName)
		assert.Equal(t, "Instagram", order.ServiceCategory)
		assert.Equal(t, domain.OrderStatusProcessing, order.Status)
		assert.Equal(t, "50.00", domain.FormatMoney(order.Charge))
		assert.Equal(t, 120, order.StartCount)
		assert.Equal(t, "ext-77", *order.ExternalID)
	})

	t.Run("Other account's order is not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(int64(10001), 2).WillReturnError(pgx.ErrNoRows)

		order, err := repo.FindByID(context.Background(), 2, 10001)

		assert.NoError(t, err)
		assert.Nil(t, order)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Exists(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`)

	mock.ExpectQuery(query).WithArgs(int64(10001)).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.Exists(context.Background(), 10001)
	assert.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(query).WithArgs(int64(10002)).WillReturnError(errors.New("conn closed"))
	_, err = repo.Exists(context.Background(), 10002)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	const searchCond = `(o.link ILIKE $3 ESCAPE '\' OR o.order_id::text = $4)`

	tests := []struct {
		name      string
		filter    domain.OrderFilter
		mockSetup func()
		total     int
		count     int
		service   string
	}{
		{
			name:   "No filters",
			filter: domain.OrderFilter{Status: "all", Page: 1, Limit: 50},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders o WHERE o.account_id = $1`)).
					WithArgs(1).
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(regexp.QuoteMeta(`FROM orders o LEFT JOIN services s ON s.id = o.service_ref WHERE o.account_id = $1 ORDER BY o.created_at DESC, o.order_id DESC LIMIT $2 OFFSET $3`)).
					WithArgs(1, 50, 0).
					WillReturnRows(pgxmock.NewRows(orderViewRowColumns).AddRow(
						int64(10001), 1, 3, 101, "https://instagram.com/p/abc", 5000, "50.00", 0, 5000, "Pending", (*string)(nil), now, now,
						"Instagram Followers", "Instagram",
					))
			},
			total:   1,
			count:   1,
			service: "Instagram Followers",
		},
		{
			name:   "Status and search",
			filter: domain.OrderFilter{Status: "Pending", Search: "10001", Page: 2, Limit: 10},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders o WHERE o.account_id = $1 AND o.status = $2 AND `+searchCond)).
					WithArgs(1, "Pending", "%10001%", "10001").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(11))
				mock.ExpectQuery(regexp.QuoteMeta(searchCond+` ORDER BY o.created_at DESC, o.order_id DESC LIMIT $5 OFFSET $6`)).
					WithArgs(1, "Pending", "%10001%", "10001", 10, 10).
					WillReturnRows(pgxmock.NewRows(orderViewRowColumns))
			},
			total: 11,
			count: 0,
		},
		{
			name:   "Search wildcards are literal",
			filter: domain.OrderFilter{Search: `50%_off\`, Page: 1, Limit: 10},
			mockSetup: func() {
				cond := `(o.link ILIKE $2 ESCAPE '\' OR o.order_id::text = $3)`
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders o WHERE o.account_id = $1 AND `+cond)).
					WithArgs(1, `%50\%\_off\\%`, `50%_off\`).
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(regexp.QuoteMeta(cond+` ORDER BY o.created_at DESC`)).
					WithArgs(1, `%50\%\_off\\%`, `50%_off\`, 10, 0).
					WillReturnRows(pgxmock.NewRows(orderViewRowColumns))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			orders, total, err := repo.List(context.Background(), 1, tt.filter)

			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, orders, tt.count)
			if tt.service != "" {
				assert.Equal(t, tt.service, orders[0].ServiceName)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindForSubmissionAndOpen(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = 'Pending' AND external_id IS NULL ORDER BY order_id ASC LIMIT $1`)).
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows(orderRowColumns).AddRow(
			int64(10001), 1, 3, 101, "https://instagram.com/p/abc", 5000, "50.00", 0, 5000, "Pending", (*string)(nil), now, now,
		))
	pending, err := repo.FindForSubmission(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status IN ('In progress', 'Processing') AND external_id IS NOT NULL`)).
		WithArgs(20).
		WillReturnError(errors.New("database error"))
	_, err = repo.FindOpen(context.Background(), 20)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetExternalID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE orders SET external_id = $2, status = 'In progress', updated_at = NOW() WHERE order_id = $1 AND external_id IS NULL`)

	mock.ExpectExec(query).WithArgs(int64(10001), "ext-1").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	ok, err := repo.SetExternalID(context.Background(), 10001, "ext-1")
	assert.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(query).WithArgs(int64(10001), "ext-2").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	ok, err = repo.SetExternalID(context.Background(), 10001, "ext-2")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Transition(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        UPDATE orders
        SET status = $2, start_count = $3, remains = $4, updated_at = NOW()
        WHERE order_id = $1 AND status NOT IN ('Completed', 'Partial', 'Canceled') AND $2 <> 'Pending'`)

	tests := []struct {
		name      string
		mockSetup func()
		expected  bool
		expectErr bool
	}{
		{
			name: "Open order transitions",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(int64(10001), "Partial", 100, 1000).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expected: true,
		},
		{
			name: "Terminal order is left untouched",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(int64(10001), "Partial", 100, 1000).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expected: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(int64(10001), "Partial", 100, 1000).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			ok, err := repo.Transition(context.Background(), 10001, domain.OrderStatusPartial, 100, 1000)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TransitionToPending(t *testing.T) {
	repo, mock := NewMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`AND $2 <> 'Pending'`)).WithArgs(int64(10001), "Pending", 0, 5000).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.Transition(context.Background(), 10001, domain.OrderStatusPending, 0, 5000)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
