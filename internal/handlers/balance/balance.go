package balance

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/dto"
	"github.com/GlebRadaev/smmpanel/internal/handlers/httperr"
	"github.com/GlebRadaev/smmpanel/pkg/auth"
	"github.com/GlebRadaev/smmpanel/pkg/utils"
)

type Service interface {
	GetBalance(ctx context.Context, accountID int) (decimal.Decimal, error)
	GetTransactions(ctx context.Context, accountID, page, limit int) (*domain.Page[domain.LedgerEntry], error)
}

type BalanceHandler struct {
	balanceService Service
	currency       string
}

func New(balanceService Service, currency string) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
		currency:       currency,
	}
}

// GetBalance godoc
//
//	@Summary		Get current balance
//	@Description	Balance of the authenticated account with two decimals.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		401	{object}	utils.Response	"Account not authorized"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/balance [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}
	balance, err := h.balanceService.GetBalance(r.Context(), accountID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewBalance(balance, h.currency))
}

// GetTransactions godoc
//
//	@Summary		Transaction history
//	@Description	Ledger entries of the authenticated account, newest first.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Produce		json
//	@Param			page	query		int	false	"Page, from 1"
//	@Param			limit	query		int	false	"Page size, up to 100"
//	@Success		200		{object}	dto.TransactionsResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid paging"
//	@Failure		401		{object}	utils.Response	"Account not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/transactions [get]
func (h *BalanceHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}
	page, limit := 0, 0
	for name, dst := range map[string]*int{"page": &page, "limit": &limit} {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httperr.Respond(w, domain.Validationf("invalid %s %q", name, v))
			return
		}
		*dst = n
	}

	entries, err := h.balanceService.GetTransactions(r.Context(), accountID, page, limit)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTransactions(entries))
}
