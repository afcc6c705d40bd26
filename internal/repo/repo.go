package repo

import (
	"github.com/GlebRadaev/smmpanel/internal/commission"
	"github.com/GlebRadaev/smmpanel/internal/fulfillment"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	accountrepo "github.com/GlebRadaev/smmpanel/internal/repo/account-repo"
	balancerepo "github.com/GlebRadaev/smmpanel/internal/repo/balance-repo"
	catalogrepo "github.com/GlebRadaev/smmpanel/internal/repo/catalog-repo"
	ledgerrepo "github.com/GlebRadaev/smmpanel/internal/repo/ledger-repo"
	orderrepo "github.com/GlebRadaev/smmpanel/internal/repo/order-repo"
	referralrepo "github.com/GlebRadaev/smmpanel/internal/repo/referral-repo"
	sequencerepo "github.com/GlebRadaev/smmpanel/internal/repo/sequence-repo"
	"github.com/GlebRadaev/smmpanel/internal/service/authservice"
	"github.com/GlebRadaev/smmpanel/internal/service/balanceservice"
	"github.com/GlebRadaev/smmpanel/internal/service/catalogservice"
	"github.com/GlebRadaev/smmpanel/internal/service/orderservice"
	"github.com/GlebRadaev/smmpanel/internal/service/referralservice"
)

// Each repository serves several consumers; the sets below are the union of what they need.

type AccountRepo interface {
	authservice.Repo
	orderservice.AccountRepo
}

type BalanceRepo interface {
	balanceservice.BalanceRepo
	orderservice.BalanceRepo
}

type OrderRepo interface {
	orderservice.OrderRepo
	fulfillment.OrderRepo
}

type ReferralRepo interface {
	authservice.ReferralRepo
	referralservice.Repo
	orderservice.ReferralRepo
	commission.Repo
}

type Repositories struct {
	AccountRepo  AccountRepo
	BalanceRepo  BalanceRepo
	LedgerRepo   balanceservice.LedgerRepo
	SequenceRepo orderservice.SequenceRepo
	CatalogRepo  catalogservice.Repo
	OrderRepo    OrderRepo
	ReferralRepo ReferralRepo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		AccountRepo:  accountrepo.New(conn),
		BalanceRepo:  balancerepo.New(conn, txManager),
		LedgerRepo:   ledgerrepo.New(conn),
		SequenceRepo: sequencerepo.New(conn),
		CatalogRepo:  catalogrepo.New(conn),
		OrderRepo:    orderrepo.New(conn),
		ReferralRepo: referralrepo.New(conn, txManager),
	}
}
