package orders

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/dto"
	"github.com/GlebRadaev/smmpanel/internal/handlers/httperr"
	"github.com/GlebRadaev/smmpanel/internal/service/orderservice"
	"github.com/GlebRadaev/smmpanel/pkg/auth"
	"github.com/GlebRadaev/smmpanel/pkg/utils"
)

type Service interface {
	PlaceOrder(ctx context.Context, accountID, serviceID int, link string, quantity int) (*domain.Order, error)
	PlaceMassOrder(ctx context.Context, accountID int, lines []string) (*orderservice.MassOrderResult, error)
	GetOrder(ctx context.Context, accountID int, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, accountID int, filter domain.OrderFilter) (*domain.Page[domain.Order], error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func accountID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.AccountID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
	}
	return id, ok
}

// PlaceOrder godoc
//
//	@Summary		Place an order
//	@Description	Debit the charge for quantity units of a service and create a Pending order.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.PlaceOrderRequestDTO	true	"Order to place"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.PlacedOrderDTO
//	@Failure		400	{object}	utils.Response	"Invalid link, quantity or inactive service"
//	@Failure		401	{object}	utils.Response	"Account not authorized"
//	@Failure		402	{object}	utils.Response	"Insufficient balance"
//	@Failure		404	{object}	utils.Response	"Service not found"
//	@Failure		409	{object}	utils.Response	"Concurrent update, retry"
//	@Failure		503	{object}	utils.Response	"Storage unavailable"
//	@Router			/api/orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dto.PlaceOrderRequestDTO
	if err := dto.Decode(r.Body, &req); err != nil {
		httperr.Respond(w, err)
		return
	}
	order, err := h.orderService.PlaceOrder(r.Context(), id, req.ServiceID, req.Link, req.Quantity)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewPlacedOrder(order))
}

// PlaceMassOrder godoc
//
//	@Summary		Place a mass order
//	@Description	Place one order per "serviceId|link|quantity" line with a single debit. Invalid lines are skipped.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.MassOrderRequestDTO	true	"Order lines"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.MassOrderResponseDTO
//	@Failure		400	{object}	utils.Response	"No valid lines"
//	@Failure		401	{object}	utils.Response	"Account not authorized"
//	@Failure		402	{object}	utils.Response	"Insufficient balance"
//	@Failure		503	{object}	utils.Response	"Storage unavailable"
//	@Router			/api/orders/mass [post]
func (h *OrderHandler) PlaceMassOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dto.MassOrderRequestDTO
	if err := dto.Decode(r.Body, &req); err != nil {
		httperr.Respond(w, err)
		return
	}
	result, err := h.orderService.PlaceMassOrder(r.Context(), id, req.Orders)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.MassOrderResponseDTO{
		Count:       result.Count,
		TotalCharge: domain.FormatMoney(result.TotalCharge),
		OrderIDs:    result.OrderIDs,
	})
}

// GetOrders godoc
//
//	@Summary		List orders
//	@Description	Orders of the account, newest first.
//	@Tags			Orders
//	@Produce		json
//	@Param			status	query	string	false	"Status filter, all for none"
//	@Param			search	query	string	false	"Link substring or exact order id"
//	@Param			page	query	int		false	"Page, from 1"
//	@Param			limit	query	int		false	"Page size, up to 100"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrdersResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid filter"
//	@Failure		401	{object}	utils.Response	"Account not authorized"
//	@Failure		503	{object}	utils.Response	"Storage unavailable"
//	@Router			/api/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, err := queryInt(q.Get("page"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}

	orders, err := h.orderService.ListOrders(r.Context(), id, domain.OrderFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrders(orders))
}

// GetOrder godoc
//
//	@Summary		Get an order
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path	int	true	"Order id"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderDTO
//	@Failure		400	{object}	utils.Response	"Invalid order id"
//	@Failure		401	{object}	utils.Response	"Account not authorized"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Router			/api/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || orderID <= 0 {
		httperr.Respond(w, domain.Validationf("invalid order id"))
		return
	}
	order, err := h.orderService.GetOrder(r.Context(), id, orderID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrder(order))
}

// queryInt parses an optional positive integer query parameter; empty means zero.
func queryInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, domain.Validationf("invalid number %q", s)
	}
	return n, nil
}
