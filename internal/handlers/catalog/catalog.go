package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/dto"
	"github.com/GlebRadaev/smmpanel/internal/handlers/httperr"
	"github.com/GlebRadaev/smmpanel/pkg/utils"
)

type Service interface {
	ListServices(ctx context.Context, category, search string) ([]domain.Service, error)
	GetService(ctx context.Context, serviceID int) (*domain.Service, error)
}

type CatalogHandler struct {
	catalogService Service
}

func New(catalogService Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListServices godoc
//
//	@Summary		List active services
//	@Tags			Services
//	@Produce		json
//	@Param			category	query	string	false	"Category"
//	@Param			search		query	string	false	"Name or description substring"
//	@Security		BearerAuth
//	@Success		200	{array}		dto.ServiceDTO
//	@Failure		401	{object}	utils.Response	"Account not authorized"
//	@Failure		503	{object}	utils.Response	"Storage unavailable"
//	@Router			/api/services [get]
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.ListServices(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("search"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewServices(services))
}

// GetService godoc
//
//	@Summary		Get a service
//	@Tags			Services
//	@Produce		json
//	@Param			id	path	int	true	"Public service id"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ServiceDTO
//	@Failure		400	{object}	utils.Response	"Invalid service id"
//	@Failure		404	{object}	utils.Response	"Service not found"
//	@Router			/api/services/{id} [get]
func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Respond(w, domain.Validationf("invalid service id"))
		return
	}
	svc, err := h.catalogService.GetService(r.Context(), serviceID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewService(svc))
}
