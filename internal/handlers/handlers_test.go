package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/smmpanel/internal/config"
	"github.com/GlebRadaev/smmpanel/internal/events"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/GlebRadaev/smmpanel/internal/repo"
	"github.com/GlebRadaev/smmpanel/internal/service"
	"github.com/GlebRadaev/smmpanel/pkg/auth"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	txManager := pg.NewMockTXManager(ctrl)
	services := service.New(&config.Config{JWTSecret: "secret"}, repo.New(pg.New(mockDB), txManager), txManager, events.Nop{})

	h := New(services, "INR")

	assert.NotNil(t, h.AuthHandler)
	assert.NotNil(t, h.OrderHandler)
	assert.NotNil(t, h.BalanceHandler)
	assert.NotNil(t, h.CatalogHandler)
	assert.NotNil(t, h.ReferralHandler)
	assert.NotNil(t, h.PartnerHandler)
	assert.NotNil(t, h.JWTService)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockOrderHandler := NewMockOrderHandler(ctrl)
	mockBalanceHandler := NewMockBalanceHandler(ctrl)
	mockCatalogHandler := NewMockCatalogHandler(ctrl)
	mockReferralHandler := NewMockReferralHandler(ctrl)
	mockPartnerHandler := NewMockPartnerHandler(ctrl)
	mockJWT := auth.NewMockJWTServiceInterface(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().GenerateAPIKey(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().PlaceMassOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().GetOrders(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrderHandler.EXPECT().GetOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockBalanceHandler.EXPECT().GetBalance(gomock.Any(), gomock.Any()).AnyTimes()
	mockBalanceHandler.EXPECT().GetTransactions(gomock.Any(), gomock.Any()).AnyTimes()
	mockCatalogHandler.EXPECT().ListServices(gomock.Any(), gomock.Any()).AnyTimes()
	mockCatalogHandler.EXPECT().GetService(gomock.Any(), gomock.Any()).AnyTimes()
	mockReferralHandler.EXPECT().Stats(gomock.Any(), gomock.Any()).AnyTimes()
	mockReferralHandler.EXPECT().TrackVisit(gomock.Any(), gomock.Any()).AnyTimes()
	mockPartnerHandler.EXPECT().Handle(gomock.Any(), gomock.Any()).AnyTimes()
	mockJWT.EXPECT().ValidateToken("good").Return(&auth.Claims{AccountID: 1}, nil).AnyTimes()
	mockJWT.EXPECT().ValidateToken("expired").Return(nil, errors.New("token is expired")).AnyTimes()

	h := &Handlers{
		AuthHandler:     mockAuthHandler,
		OrderHandler:    mockOrderHandler,
		BalanceHandler:  mockBalanceHandler,
		CatalogHandler:  mockCatalogHandler,
		ReferralHandler: mockReferralHandler,
		PartnerHandler:  mockPartnerHandler,
		JWTService:      mockJWT,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		token  string
		status int
	}{
		{"POST", "/api/user/register", "", http.StatusOK},
		{"POST", "/api/user/login", "", http.StatusOK},
		{"POST", "/api/user/api-key", "", http.StatusUnauthorized},
		{"POST", "/api/user/api-key", "good", http.StatusOK},
		{"GET", "/api/user/balance", "", http.StatusUnauthorized},
		{"GET", "/api/user/balance", "expired", http.StatusUnauthorized},
		{"GET", "/api/user/balance", "good", http.StatusOK},
		{"GET", "/api/user/transactions", "good", http.StatusOK},
		{"POST", "/api/orders", "", http.StatusUnauthorized},
		{"POST", "/api/orders", "good", http.StatusOK},
		{"POST", "/api/orders/mass", "good", http.StatusOK},
		{"GET", "/api/orders", "good", http.StatusOK},
		{"GET", "/api/orders/10001", "good", http.StatusOK},
		{"GET", "/api/services", "", http.StatusUnauthorized},
		{"GET", "/api/services/1", "good", http.StatusOK},
		{"GET", "/api/referrals/stats", "", http.StatusUnauthorized},
		{"GET", "/api/referrals/stats", "good", http.StatusOK},
		{"POST", "/api/referrals/track/4242424242", "", http.StatusOK},
		{"POST", "/api/v2", "", http.StatusOK},
		{"GET", "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url+" "+tt.token, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
