package referral

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/smmpanel/internal/dto"
	"github.com/GlebRadaev/smmpanel/internal/handlers/httperr"
	"github.com/GlebRadaev/smmpanel/internal/service/referralservice"
	"github.com/GlebRadaev/smmpanel/pkg/auth"
	"github.com/GlebRadaev/smmpanel/pkg/utils"
)

type Service interface {
	Stats(ctx context.Context, accountID int) (*referralservice.Stats, error)
	TrackVisit(ctx context.Context, code string) error
}

type ReferralHandler struct {
	referralService Service
}

func New(referralService Service) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
	}
}

// Stats godoc
//
//	@Summary		Referral statistics
//	@Description	Referral link, counters and earnings of the authenticated account.
//	@Tags			Referrals
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.ReferralStatsDTO
//	@Failure		401	{object}	utils.Response	"Account not authorized"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Router			/api/referrals/stats [get]
func (h *ReferralHandler) Stats(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}
	stats, err := h.referralService.Stats(r.Context(), accountID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewReferralStats(stats))
}

// TrackVisit godoc
//
//	@Summary		Track a referral link visit
//	@Description	Public. Unknown codes are accepted and ignored.
//	@Tags			Referrals
//	@Produce		json
//	@Param			code	path		string	true	"Referral code"
//	@Success		200		{object}	dto.SuccessDTO
//	@Failure		503		{object}	utils.Response	"Storage unavailable"
//	@Router			/api/referrals/track/{code} [post]
func (h *ReferralHandler) TrackVisit(w http.ResponseWriter, r *http.Request) {
	if err := h.referralService.TrackVisit(r.Context(), chi.URLParam(r, "code")); err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.SuccessDTO{Success: true})
}
