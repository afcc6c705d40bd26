package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/GlebRadaev/smmpanel/pkg/utils"
)

type ContextKey string

const AccountIDKey ContextKey = "accountID"

const codeUnauthorized = "UNAUTHORIZED"

// Middleware rejects requests without a valid bearer token and stores the account id in the context.
func Middleware(jwtService JWTServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized")
				return
			}

			claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), claims.AccountID)))
		})
	}
}

func WithAccountID(ctx context.Context, accountID int) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

func AccountID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(AccountIDKey).(int)
	return id, ok && id > 0
}
