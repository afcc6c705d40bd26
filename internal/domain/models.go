package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID               int              `db:"id"`
	Name             string           `db:"name"`
	Email            string           `db:"email"`
	PasswordHash     string           `db:"password_hash"`
	Balance          decimal.Decimal  `db:"balance"`
	APIKey           *string          `db:"api_key"`
	ReferralCode     string           `db:"referral_code"`
	ReferredBy       *int             `db:"referred_by"`
	ReferralEarnings ReferralEarnings `db:"-"`
	ReferralStats    ReferralStats    `db:"-"`
	IsActive         bool             `db:"is_active"`
	CreatedAt        time.Time        `db:"created_at"`
}

type ReferralEarnings struct {
	Total     decimal.Decimal `db:"referral_total"`
	Available decimal.Decimal `db:"referral_available"`
}

type ReferralStats struct {
	Visits        int `db:"referral_visits"`
	Registrations int `db:"referral_registrations"`
	Conversions   int `db:"referral_conversions"`
}

type Service struct {
	ID          int             `db:"id"`
	ServiceID   int             `db:"service_id"`
	Name        string          `db:"name"`
	Category    string          `db:"category"`
	Type        string          `db:"type"`
	Rate        decimal.Decimal `db:"rate"`
	Min         int             `db:"min_quantity"`
	Max         int             `db:"max_quantity"`
	Description string          `db:"description"`
	Refill      bool            `db:"refill"`
	Cancel      bool            `db:"cancel"`
	IsActive    bool            `db:"is_active"`
}

type OrderStatus string

const (
	// OrderStatusPending заказ создан и ещё не передан исполнителю
	OrderStatusPending OrderStatus = "Pending"
	// OrderStatusInProgress исполнитель принял заказ
	OrderStatusInProgress OrderStatus = "In progress"
	// OrderStatusProcessing исполнитель выполняет заказ
	OrderStatusProcessing OrderStatus = "Processing"
	// OrderStatusCompleted заказ выполнен полностью
	OrderStatusCompleted OrderStatus = "Completed"
	// OrderStatusPartial заказ выполнен частично, остаток возвращён на баланс
	OrderStatusPartial OrderStatus = "Partial"
	// OrderStatusCanceled заказ отменён, списание возвращено на баланс
	OrderStatusCanceled OrderStatus = "Canceled"
)

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusPartial || s == OrderStatusCanceled
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusProcessing,
		OrderStatusCompleted, OrderStatusPartial, OrderStatusCanceled:
		return st, true
	}
	return "", false
}

type Order struct {
	OrderID    int64           `db:"order_id"`
	AccountID  int             `db:"account_id"`
	ServiceRef int             `db:"service_ref"`
	ServiceID  int             `db:"service_id"`
	Link       string          `db:"link"`
	Quantity   int             `db:"quantity"`
	Charge     decimal.Decimal `db:"charge"`
	StartCount int             `db:"start_count"`
	Remains    int             `db:"remains"`
	Status     OrderStatus     `db:"status"`
	ExternalID *string         `db:"external_id"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`

	// Filled by account-facing reads only.
	ServiceName     string `db:"service_name"`
	ServiceCategory string `db:"service_category"`
}

type OrderFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// MaxPage bounds page numbers so the row offset always fits the query.
const MaxPage = 100000

// CheckPage rejects page numbers past MaxPage.
func CheckPage(page int) error {
	if page > MaxPage {
		return Validationf("page must not exceed %d", MaxPage)
	}
	return nil
}

func (f OrderFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type CommissionStatus string

const (
	CommissionPending CommissionStatus = "pending"
	CommissionApplied CommissionStatus = "applied"
)

type Commission struct {
	OrderID    int64            `db:"order_id"`
	ReferrerID int              `db:"referrer_id"`
	ReferredID int              `db:"referred_id"`
	Amount     decimal.Decimal  `db:"amount"`
	Status     CommissionStatus `db:"status"`
	CreatedAt  time.Time        `db:"created_at"`
	AppliedAt  *time.Time       `db:"applied_at"`
}

type LedgerKind string

const (
	LedgerDebit  LedgerKind = "debit"
	LedgerCredit LedgerKind = "credit"
)

type LedgerEntry struct {
	ID           int64           `db:"id"`
	AccountID    int             `db:"account_id"`
	OrderID      *int64          `db:"order_id"`
	Kind         LedgerKind      `db:"kind"`
	Amount       decimal.Decimal `db:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
	Description  string          `db:"description"`
	CreatedAt    time.Time       `db:"created_at"`
}

// Page is one page of a filtered listing together with the size of the whole result set.
type Page[T any] struct {
	Items      []T
	Total      int
	TotalPages int
	Page       int
}

func NewPage[T any](items []T, total, page, limit int) *Page[T] {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		TotalPages: pages,
		Page:       page,
	}
}

// OrderSequence names the counter order ids are allocated from.
const OrderSequence = "orders"
