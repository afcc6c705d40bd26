package referralservice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/smmpanel/internal/domain"
)

type Repo interface {
	IncrementVisits(ctx context.Context, code string) (bool, error)
}

type AccountRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Account, error)
}

// MinimumPayout is the smallest available balance a referrer can withdraw.
var MinimumPayout = decimal.NewFromInt(10)

type Stats struct {
	ReferralCode      string
	ReferralLink      string
	CommissionRate    decimal.Decimal
	MinimumPayout     decimal.Decimal
	Visits            int
	Registrations     int
	Referrals         int
	ConversionRate    decimal.Decimal
	TotalEarnings     decimal.Decimal
	AvailableEarnings decimal.Decimal
}

type Service struct {
	repo           Repo
	accounts       AccountRepo
	linkBase       string
	commissionRate decimal.Decimal
}

func New(repo Repo, accounts AccountRepo, linkBase string, commissionRate decimal.Decimal) *Service {
	return &Service{
		repo:           repo,
		accounts:       accounts,
		linkBase:       linkBase,
		commissionRate: commissionRate,
	}
}

func (s *Service) Stats(ctx context.Context, accountID int) (*Stats, error) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		zap.L().Error("failed to load referral stats", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}

	// Share of registered referrals that placed at least one paid order, in percent.
	rate := decimal.Zero
	if acc.ReferralStats.Registrations > 0 {
		rate = decimal.NewFromInt(int64(acc.ReferralStats.Conversions)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(acc.ReferralStats.Registrations))).
			Round(domain.MinorUnits)
	}

	return &Stats{
		ReferralCode:      acc.ReferralCode,
		ReferralLink:      s.linkBase + acc.ReferralCode,
		CommissionRate:    s.commissionRate,
		MinimumPayout:     MinimumPayout,
		Visits:            acc.ReferralStats.Visits,
		Registrations:     acc.ReferralStats.Registrations,
		Referrals:         acc.ReferralStats.Conversions,
		ConversionRate:    rate,
		TotalEarnings:     acc.ReferralEarnings.Total,
		AvailableEarnings: acc.ReferralEarnings.Available,
	}, nil
}

// TrackVisit counts a visit of a referral link. Unknown codes are ignored.
func (s *Service) TrackVisit(ctx context.Context, code string) error {
	found, err := s.repo.IncrementVisits(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if !found {
		zap.L().Debug("visit with unknown referral code", zap.String("code", code))
	}
	return nil
}
