package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/smmpanel/internal/domain"
)

type BalanceResponseDTO struct {
	Balance  string `json:"balance" example:"950.00"`
	Currency string `json:"currency" example:"INR"`
}

type TransactionDTO struct {
	ID           int64  `json:"id" example:"1"`
	OrderID      *int64 `json:"orderId,omitempty" example:"10001"`
	Kind         string `json:"type" example:"debit"`
	Amount       string `json:"amount" example:"50.00"`
	BalanceAfter string `json:"balanceAfter" example:"950.00"`
	Description  string `json:"description" example:"Order #10001"`
	CreatedAt    string `json:"createdAt" example:"2026-10-01T12:00:00Z"`
}

type TransactionsResponseDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	PageDTO
}

func NewBalance(balance decimal.Decimal, currency string) BalanceResponseDTO {
	return BalanceResponseDTO{
		Balance:  domain.FormatMoney(balance),
		Currency: currency,
	}
}

func NewTransactions(p *domain.Page[domain.LedgerEntry]) TransactionsResponseDTO {
	items := make([]TransactionDTO, 0, len(p.Items))
	for _, e := range p.Items {
		items = append(items, TransactionDTO{
			ID:           e.ID,
			OrderID:      e.OrderID,
			Kind:         string(e.Kind),
			Amount:       domain.FormatMoney(e.Amount),
			BalanceAfter: domain.FormatMoney(e.BalanceAfter),
			Description:  e.Description,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		})
	}
	return TransactionsResponseDTO{
		Transactions: items,
		PageDTO:      newPage(p),
	}
}
