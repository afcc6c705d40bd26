package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/dto"
	"github.com/GlebRadaev/smmpanel/internal/handlers/httperr"
	"github.com/GlebRadaev/smmpanel/internal/service/authservice"
	"github.com/GlebRadaev/smmpanel/pkg/utils"
)

const (
	ActionServices = "services"
	ActionAdd      = "add"
	ActionStatus   = "status"
	ActionBalance  = "balance"
)

type AuthService interface {
	AccountByAPIKey(ctx context.Context, key string) (*domain.Account, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, accountID, serviceID int, link string, quantity int) (*domain.Order, error)
	GetOrder(ctx context.Context, accountID int, orderID int64) (*domain.Order, error)
}

type CatalogService interface {
	ListServices(ctx context.Context, category, search string) ([]domain.Service, error)
}

type BalanceService interface {
	GetBalance(ctx context.Context, accountID int) (decimal.Decimal, error)
}

type APIHandler struct {
	authService    AuthService
	orderService   OrderService
	catalogService CatalogService
	balanceService BalanceService
	currency       string
}

func New(authService AuthService, orderService OrderService, catalogService CatalogService, balanceService BalanceService, currency string) *APIHandler {
	return &APIHandler{
		authService:    authService,
		orderService:   orderService,
		catalogService: catalogService,
		balanceService: balanceService,
		currency:       currency,
	}
}

// params holds the request fields regardless of how they were sent.
type params map[string]string

func (p params) int(name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(p[name]))
	if err != nil {
		return 0, domain.Validationf("%s must be an integer", name)
	}
	return v, nil
}

func readParams(r *http.Request) (params, error) {
	p := params{}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, domain.Validationf("invalid request body")
		}
		for k, v := range body {
			switch v := v.(type) {
			case string:
				p[k] = v
			case float64:
				p[k] = strconv.FormatFloat(v, 'f', -1, 64)
			case nil:
			default:
				p[k] = fmt.Sprint(v)
			}
		}
	}
	// Form body and query string fill whatever JSON did not carry.
	if err := r.ParseForm(); err != nil {
		return nil, domain.Validationf("invalid request body")
	}
	for k, v := range r.Form {
		if _, ok := p[k]; !ok && len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p, nil
}

// Handle godoc
//
//	@Summary		Partner API
//	@Description	Provider-compatible endpoint authenticated by API key. Fields come from a form, a JSON body or the query string.
//	@Description	Actions: services, add (service, link, quantity), status (order), balance.
//	@Tags			Partner
//	@Accept			x-www-form-urlencoded,json
//	@Produce		json
//	@Param			key			formData	string	true	"API key"
//	@Param			action		formData	string	true	"services | add | status | balance"
//	@Param			service		formData	int		false	"Service id (add)"
//	@Param			link		formData	string	false	"Target link (add)"
//	@Param			quantity	formData	int		false	"Quantity (add)"
//	@Param			order		formData	int		false	"Order id (status)"
//	@Success		200			{object}	dto.PartnerStatusDTO
//	@Failure		400			{object}	utils.Response	"Invalid action or parameters"
//	@Failure		401			{object}	utils.Response	"Invalid API key"
//	@Failure		402			{object}	utils.Response	"Insufficient balance"
//	@Failure		404			{object}	utils.Response	"Service or order not found"
//	@Router			/api/v2 [post]
func (h *APIHandler) Handle(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		httperr.Respond(w, err)
		return
	}

	acc, err := h.authService.AccountByAPIKey(r.Context(), p["key"])
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidAPIKey) {
			utils.RespondWithError(w, http.StatusUnauthorized, "INVALID_API_KEY", "Invalid API key")
			return
		}
		httperr.Respond(w, err)
		return
	}

	var res any
	switch p["action"] {
	case ActionServices:
		res, err = h.services(r.Context())
	case ActionAdd:
		res, err = h.add(r.Context(), acc.ID, p)
	case ActionStatus:
		res, err = h.status(r.Context(), acc.ID, p)
	case ActionBalance:
		res, err = h.balance(r.Context(), acc.ID)
	default:
		err = domain.Validationf("invalid action")
	}
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func (h *APIHandler) services(ctx context.Context) (any, error) {
	services, err := h.catalogService.ListServices(ctx, "", "")
	if err != nil {
		return nil, err
	}
	return dto.NewPartnerServices(services), nil
}

func (h *APIHandler) add(ctx context.Context, accountID int, p params) (any, error) {
	serviceID, err := p.int("service")
	if err != nil {
		return nil, err
	}
	quantity, err := p.int("quantity")
	if err != nil {
		return nil, err
	}
	order, err := h.orderService.PlaceOrder(ctx, accountID, serviceID, p["link"], quantity)
	if err != nil {
		return nil, err
	}
	return dto.PartnerAddDTO{Order: order.OrderID}, nil
}

func (h *APIHandler) status(ctx context.Context, accountID int, p params) (any, error) {
	orderID, err := strconv.ParseInt(strings.TrimSpace(p["order"]), 10, 64)
	if err != nil {
		return nil, domain.Validationf("order must be an integer")
	}
	order, err := h.orderService.GetOrder(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}
	return dto.NewPartnerStatus(order), nil
}

func (h *APIHandler) balance(ctx context.Context, accountID int) (any, error) {
	balance, err := h.balanceService.GetBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return dto.NewBalance(balance, h.currency), nil
}
