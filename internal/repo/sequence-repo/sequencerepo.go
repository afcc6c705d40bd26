package sequencerepo

import (
	"context"
	"fmt"

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

// Next reserves n consecutive values of the named counter and returns the first one.
// The first value ever handed out is floor. Reserved values are never handed out again,
// even if the caller does not use them.
func (r *Repository) Next(ctx context.Context, name string, n int, floor int64) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("sequence %s: invalid batch size %d", name, n)
	}
	query := `
		INSERT INTO sequences (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + $3
		RETURNING value
	`
	var last int64
	if err := r.db.QueryRow(ctx, query, name, floor+int64(n)-1, int64(n)).Scan(&last); err != nil {
		zap.L().Error("can't allocate sequence values", zap.String("sequence", name), zap.Int("n", n), zap.Error(err))
		return 0, err
	}
	return last - int64(n) + 1, nil
}
