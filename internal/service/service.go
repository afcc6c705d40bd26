package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/GlebRadaev/smmpanel/internal/config"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/GlebRadaev/smmpanel/internal/repo"
	"github.com/GlebRadaev/smmpanel/internal/service/authservice"
	"github.com/GlebRadaev/smmpanel/internal/service/balanceservice"
	"github.com/GlebRadaev/smmpanel/internal/service/catalogservice"
	"github.com/GlebRadaev/smmpanel/internal/service/orderservice"
	"github.com/GlebRadaev/smmpanel/internal/service/referralservice"
	"github.com/GlebRadaev/smmpanel/pkg/auth"
)

type Services struct {
	AuthService     *authservice.Service
	OrderService    *orderservice.Service
	BalanceService  *balanceservice.Service
	CatalogService  *catalogservice.Service
	ReferralService *referralservice.Service
	JWTService      auth.JWTServiceInterface
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager, publisher orderservice.Publisher) *Services {
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	return &Services{
		AuthService: authservice.New(
			repo.AccountRepo, repo.ReferralRepo, txManager,
			auth.NewHashService(bcrypt.DefaultCost), jwtService, cfg.TokenTTL,
		),
		OrderService: orderservice.New(orderservice.Deps{
			Catalog:   repo.CatalogRepo,
			Accounts:  repo.AccountRepo,
			Balance:   repo.BalanceRepo,
			Ledger:    repo.LedgerRepo,
			Orders:    repo.OrderRepo,
			Sequence:  repo.SequenceRepo,
			Referrals: repo.ReferralRepo,
			TxManager: txManager,
			Publisher: publisher,
		}, orderservice.Options{
			CommissionRate: cfg.CommissionRate,
			OrderIDFloor:   cfg.OrderIDFloor,
			MaxRetries:     cfg.MaxRetries,
			RetryInterval:  cfg.RetryInterval,
		}),
		BalanceService:  balanceservice.New(repo.BalanceRepo, repo.LedgerRepo, txManager),
		CatalogService:  catalogservice.New(repo.CatalogRepo),
		ReferralService: referralservice.New(repo.ReferralRepo, repo.AccountRepo, cfg.ReferralLinkBase, cfg.CommissionRate),
		JWTService:      jwtService,
	}
}
