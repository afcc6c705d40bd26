package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const orderColumns = `order_id, account_id, service_ref, service_id, link, quantity, charge::text,
	start_count, remains, status, external_id, created_at, updated_at`

// Account-facing reads carry the service name and category along with the order.
const orderViewColumns = `o.order_id, o.account_id, o.service_ref, o.service_id, o.link, o.quantity, o.charge::text,
	o.start_count, o.remains, o.status, o.external_id, o.created_at, o.updated_at,
	COALESCE(s.name, ''), COALESCE(s.category, '')`

const orderViewFrom = ` FROM orders o LEFT JOIN services s ON s.id = o.service_ref`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var copyColumns = []string{
	"order_id", "account_id", "service_ref", "service_id", "link", "quantity", "charge", "start_count", "remains", "status",
}

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	return scan(row, false)
}

func scanOrderView(row pgx.Row) (*domain.Order, error) {
	return scan(row, true)
}

func scan(row pgx.Row, withService bool) (*domain.Order, error) {
	var (
		order          domain.Order
		charge, status string
	)
	dest := []any{&order.OrderID, &order.AccountID, &order.ServiceRef, &order.ServiceID, &order.Link, &order.Quantity, &charge,
		&order.StartCount, &order.Remains, &status, &order.ExternalID, &order.CreatedAt, &order.UpdatedAt}
	if withService {
		dest = append(dest, &order.ServiceName, &order.ServiceCategory)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	var err error
	if order.Charge, err = pg.Decimal(charge); err != nil {
		return nil, err
	}
	return &order, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	return collect(rows, scanOrder)
}

func collect(rows pgx.Rows, scanFn func(pgx.Row) (*domain.Order, error)) ([]domain.Order, error) {
	defer rows.Close()
	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanFn(rows)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// Create inserts an order whose id was allocated beforehand.
func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	query := `
        INSERT INTO orders (order_id, account_id, service_ref, service_id, link, quantity, charge, remains, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9)
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		order.OrderID, order.AccountID, order.ServiceRef, order.ServiceID, order.Link, order.Quantity,
		domain.FormatMoney(order.Charge), order.Remains, string(order.Status),
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save order", zap.Int64("order_id", order.OrderID), zap.Error(err))
		return err
	}
	return nil
}

// CreateBatch bulk-inserts orders with COPY.
func (r *Repository) CreateBatch(ctx context.Context, orders []domain.Order) error {
	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"orders"}, copyColumns,
		pgx.CopyFromSlice(len(orders), func(i int) ([]any, error) {
			o := orders[i]
			return []any{
				o.OrderID, o.AccountID, o.ServiceRef, o.ServiceID, o.Link, o.Quantity,
				pg.Numeric(o.Charge), o.StartCount, o.Remains, string(o.Status),
			}, nil
		}),
	)
	if err != nil {
		zap.L().Error("can't copy orders", zap.Int("count", len(orders)), zap.Error(err))
		return err
	}
	if n != int64(len(orders)) {
		return fmt.Errorf("copy orders: inserted %d of %d", n, len(orders))
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, accountID int, orderID int64) (*domain.Order, error) {
	query := "SELECT " + orderViewColumns + orderViewFrom + " WHERE o.order_id = $1 AND o.account_id = $2"
	order, err := scanOrderView(r.db.QueryRow(ctx, query, orderID, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) Exists(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, orderID).Scan(&exists)
	if err != nil {
		zap.L().Error("can't check order", zap.Int64("order_id", orderID), zap.Error(err))
		return false, err
	}
	return exists, nil
}

// List returns one page of the account's orders, newest first, and the number of matching orders.
// Search matches the link as a literal substring or the order id exactly.
func (r *Repository) List(ctx context.Context, accountID int, filter domain.OrderFilter) ([]domain.Order, int, error) {
	conds := []string{"o.account_id = $1"}
	args := []any{accountID}
	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%", filter.Search)
		conds = append(conds, fmt.Sprintf(`(o.link ILIKE $%d ESCAPE '\' OR o.order_id::text = $%d)`, len(args)-1, len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders o WHERE "+where, args...).Scan(&total); err != nil {
		zap.L().Error("can't count orders", zap.Error(err))
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s%s WHERE %s ORDER BY o.created_at DESC, o.order_id DESC LIMIT $%d OFFSET $%d",
		orderViewColumns, orderViewFrom, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, filter.Limit, filter.Offset())...)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, 0, err
	}
	orders, err := collect(rows, scanOrderView)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindForSubmission returns pending orders that were not handed to the provider yet, oldest first.
func (r *Repository) FindForSubmission(ctx context.Context, limit int) ([]domain.Order, error) {
	query := "SELECT " + orderColumns + ` FROM orders
		WHERE status = 'Pending' AND external_id IS NULL
		ORDER BY order_id ASC
		LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get orders for submission", zap.Error(err))
		return nil, err
	}
	return collectOrders(rows)
}

// FindOpen returns orders the provider is working on, least recently synced first.
func (r *Repository) FindOpen(ctx context.Context, limit int) ([]domain.Order, error) {
	query := "SELECT " + orderColumns + ` FROM orders
		WHERE status IN ('In progress', 'Processing') AND external_id IS NOT NULL
		ORDER BY updated_at ASC
		LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get open orders", zap.Error(err))
		return nil, err
	}
	return collectOrders(rows)
}

// SetExternalID stores the provider reference once and moves the order to In progress.
func (r *Repository) SetExternalID(ctx context.Context, orderID int64, externalID string) (bool, error) {
	query := `
        UPDATE orders
        SET external_id = $2, status = 'In progress', updated_at = NOW()
        WHERE order_id = $1 AND external_id IS NULL
    `
	tag, err := r.db.Exec(ctx, query, orderID, externalID)
	if err != nil {
		zap.L().Error("failed to set external id", zap.Int64("order_id", orderID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Transition updates progress of an order that is not terminal yet. It reports false when the
// order already reached a terminal status, so a terminal transition happens at most once.
// Moving an order back to Pending is never allowed.
func (r *Repository) Transition(ctx context.Context, orderID int64, status domain.OrderStatus, startCount, remains int) (bool, error) {
	query := `
        UPDATE orders
        SET status = $2, start_count = $3, remains = $4, updated_at = NOW()
        WHERE order_id = $1 AND status NOT IN ('Completed', 'Partial', 'Canceled') AND $2 <> 'Pending'
    `
	tag, err := r.db.Exec(ctx, query, orderID, string(status), startCount, remains)
	if err != nil {
		zap.L().Error("failed to update order", zap.Int64("order_id", orderID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
