package commission

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/metrics"
)

const batchLimit = 500

type Repo interface {
	FindPending(ctx context.Context, before time.Time, limit int) ([]domain.Commission, error)
	ApplyCommission(ctx context.Context, orderID int64) (bool, error)
}

// Reconciler credits commissions that stayed pending after their order was placed.
// Only events older than one interval are picked up so the placing request gets the first try.
type Reconciler struct {
	repo     Repo
	interval time.Duration
	limit    int
	now      func() time.Time
}

func NewReconciler(repo Repo, interval time.Duration) *Reconciler {
	return &Reconciler{
		repo:     repo,
		interval: interval,
		limit:    batchLimit,
		now:      time.Now,
	}
}

// Start blocks until ctx is canceled.
func (r *Reconciler) Start(ctx context.Context) {
	zap.L().Info("commission reconciler started", zap.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping commission reconciler")
			return
		case <-ticker.C:
			if _, err := r.Reconcile(ctx); err != nil {
				zap.L().Error("commission reconciliation failed", zap.Error(err))
			}
		}
	}
}

// Reconcile applies one batch and returns how many commissions it credited.
func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	pending, err := r.repo.FindPending(ctx, r.now().Add(-r.interval), r.limit)
	if err != nil {
		return 0, fmt.Errorf("find pending commissions: %w", err)
	}

	applied := 0
	for _, c := range pending {
		if ctx.Err() != nil {
			return applied, ctx.Err()
		}
		ok, err := r.repo.ApplyCommission(ctx, c.OrderID)
		if err != nil {
			metrics.CommissionFailures.Inc()
			zap.L().Warn("commission still pending", zap.Int64("order_id", c.OrderID), zap.Error(err))
			continue
		}
		if ok {
			applied++
			metrics.CommissionsApplied.Inc()
		}
	}
	if applied > 0 {
		zap.L().Info("pending commissions applied", zap.Int("applied", applied), zap.Int("found", len(pending)))
	}
	return applied, nil
}
