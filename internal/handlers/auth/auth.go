package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/dto"
	"github.com/GlebRadaev/smmpanel/internal/handlers/httperr"
	"github.com/GlebRadaev/smmpanel/internal/service/authservice"
	pkgauth "github.com/GlebRadaev/smmpanel/pkg/auth"
	"github.com/GlebRadaev/smmpanel/pkg/utils"
)

const (
	codeEmailTaken         = "EMAIL_TAKEN"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeUnauthorized       = "UNAUTHORIZED"
)

type Service interface {
	Register(ctx context.Context, name, email, password, referralCode string) (*domain.Account, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Account, error)
	GenerateToken(accountID int) (string, error)
	GenerateAPIKey(ctx context.Context, accountID int) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a new account
//	@Description	Create an account. An optional referral code links it to the referrer.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		201		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"Email already registered"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if err := dto.Decode(r.Body, &req); err != nil {
		httperr.Respond(w, err)
		return
	}
	acc, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password, req.ReferralCode)
	if err != nil {
		if errors.Is(err, authservice.ErrEmailTaken) {
			utils.RespondWithError(w, http.StatusConflict, codeEmailTaken, err.Error())
			return
		}
		httperr.Respond(w, err)
		return
	}
	h.respondWithToken(w, http.StatusCreated, acc)
}

// Login godoc
//
//	@Summary		Authenticate
//	@Description	Log in with email and password and get a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if err := dto.Decode(r.Body, &req); err != nil {
		httperr.Respond(w, err)
		return
	}
	acc, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			utils.RespondWithError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
			return
		}
		httperr.Respond(w, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, acc)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, acc *domain.Account) {
	token, err := h.authService.GenerateToken(acc.ID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, status, dto.NewAuthResponse(token, acc))
}

// GenerateAPIKey godoc
//
//	@Summary		Generate API key
//	@Description	Issue a new key for the partner API. The previous key stops working.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.APIKeyResponseDTO
//	@Failure		401	{object}	utils.Response	"Account not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/api-key [post]
func (h *AuthHandler) GenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pkgauth.AccountID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized")
		return
	}
	key, err := h.authService.GenerateAPIKey(r.Context(), accountID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.APIKeyResponseDTO{APIKey: key})
}
