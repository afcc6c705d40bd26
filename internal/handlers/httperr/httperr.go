package httperr

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/pkg/utils"
)

const internalMessage = "Internal server error"

// Status maps a service error to the HTTP status the API answers with.
func Status(err error) int {
	switch domain.Code(err) {
	case domain.CodeValidation, domain.CodeQuantityOutOfRange, domain.CodeServiceInactive:
		return http.StatusBadRequest
	case domain.CodeServiceNotFound, domain.CodeOrderNotFound, domain.CodeAccountNotFound:
		return http.StatusNotFound
	case domain.CodeInsufficientBalance:
		return http.StatusPaymentRequired
	case domain.CodeConcurrencyConflict:
		return http.StatusConflict
	case domain.CodePersistence, domain.CodeReconciliation:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as {"error", "code"}. Storage details never leave the process.
func Respond(w http.ResponseWriter, err error) {
	status := Status(err)
	code := domain.Code(err)

	message := err.Error()
	switch code {
	case domain.CodePersistence:
		message = domain.ErrPersistence.Error()
	case domain.CodeReconciliation:
		message = domain.ErrReconciliationRequired.Error()
	case domain.CodeInternal:
		message = internalMessage
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("code", code), zap.Error(err))
	}
	utils.RespondWithError(w, status, code, message)
}
