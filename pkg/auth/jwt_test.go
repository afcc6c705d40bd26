package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func TestGenerateJWT(t *testing.T) {
	jwtService := NewJWTService(testSecret)

	tests := []struct {
		name           string
		accountID      int
		expirationTime time.Time
	}{
		{
			name:           "Valid Token",
			accountID:      42,
			expirationTime: time.Now().Add(time.Hour),
		},
		{
			name:           "Expired Token Is Still Signed",
			accountID:      42,
			expirationTime: time.Now().Add(-time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwtService.GenerateJWT(tt.accountID, tt.expirationTime)

			assert.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestValidateToken(t *testing.T) {
	jwtService := NewJWTService(testSecret)

	sign := func(claims jwt.Claims, secret string) string {
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		return token
	}

	tests := []struct {
		name      string
		setup     func() string
		accountID int
		wantErr   error
	}{
		{
			name: "Valid Token",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(42, time.Now().Add(time.Hour))
				return token
			},
			accountID: 42,
		},
		{
			name:    "Malformed Token",
			setup:   func() string { return "invalid.token.string" },
			wantErr: ErrInvalidToken,
		},
		{
			name: "Expired Token",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(42, time.Now().Add(-time.Hour))
				return token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "Foreign Secret",
			setup: func() string {
				token, _ := NewJWTService("other-secret").GenerateJWT(42, time.Now().Add(time.Hour))
				return token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "Missing Account",
			setup: func() string {
				return sign(jwt.StandardClaims{
					ExpiresAt: time.Now().Add(time.Hour).Unix(),
					Issuer:    Issuer,
				}, testSecret)
			},
			wantErr: ErrInvalidClaims,
		},
		{
			name: "Foreign Issuer",
			setup: func() string {
				return sign(Claims{
					AccountID: 42,
					StandardClaims: jwt.StandardClaims{
						ExpiresAt: time.Now().Add(time.Hour).Unix(),
						Issuer:    "someone-else",
					},
				}, testSecret)
			},
			wantErr: ErrInvalidClaims,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := jwtService.ValidateToken(tt.setup())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.accountID, claims.AccountID)
			assert.Equal(t, Issuer, claims.Issuer)
		})
	}
}
