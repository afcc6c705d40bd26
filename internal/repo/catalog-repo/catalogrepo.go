package catalogrepo

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

const serviceColumns = `id, service_id, name, category, type, rate::text, min_quantity, max_quantity,
	description, refill, cancel, is_active`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var (
		s    domain.Service
		rate string
	)
	err := row.Scan(&s.ID, &s.ServiceID, &s.Name, &s.Category, &s.Type, &rate, &s.Min, &s.Max,
		&s.Description, &s.Refill, &s.Cancel, &s.IsActive)
	if err != nil {
		return nil, err
	}
	if s.Rate, err = pg.Decimal(rate); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByServiceID looks a service up by its public id. Inactive services are returned too,
// callers decide what inactive means for them.
func (r *Repository) FindByServiceID(ctx context.Context, serviceID int) (*domain.Service, error) {
	query := "SELECT " + serviceColumns + " FROM services WHERE service_id = $1"
	s, err := scanService(r.db.QueryRow(ctx, query, serviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find service", zap.Int("service_id", serviceID), zap.Error(err))
		return nil, err
	}
	return s, nil
}

func (r *Repository) ListActive(ctx context.Context, category, search string) ([]domain.Service, error) {
	conds := []string{"is_active"}
	args := []any{}
	if category != "" {
		args = append(args, category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", len(args)))
	}
	query := "SELECT " + serviceColumns + " FROM services WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY category, service_id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't list services", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			zap.L().Error("can't scan service row", zap.Error(err))
			return nil, err
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}
