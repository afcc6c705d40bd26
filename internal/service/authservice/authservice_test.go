package authservice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/GlebRadaev/smmpanel/pkg/auth"
	"github.com/GlebRadaev/smmpanel/pkg/validate"
)

type mocks struct {
	accounts  *MockRepo
	referrals *MockReferralRepo
	tx        *pg.MockTXManager
	hash      *auth.MockHashServiceInterface
	jwt       *auth.MockJWTServiceInterface
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		accounts:  NewMockRepo(ctrl),
		referrals: NewMockReferralRepo(ctrl),
		tx:        pg.NewMockTXManager(ctrl),
		hash:      auth.NewMockHashServiceInterface(ctrl),
		jwt:       auth.NewMockJWTServiceInterface(ctrl),
	}
	service := New(m.accounts, m.referrals, m.tx, m.hash, m.jwt, time.Hour)
	return service, m
}

func (m *mocks) runTx(times int) {
	m.tx.EXPECT().Begin(gomock.Any(), gomock.Any()).Times(times).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
}

func created(id int) func(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
	return func(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
		acc.ID = id
		acc.IsActive = true
		return acc, nil
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	referrer := &domain.Account{ID: 3, ReferralCode: "4242424242", IsActive: true}

	tests := []struct {
		name         string
		email        string
		referralCode string
		prepareMock  func(m *mocks)
		check        func(t *testing.T, acc *domain.Account)
		wantErr      error
	}{
		{
			name:  "Registers without referrer",
			email: " Alice@Example.com ",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret123").Return("hashed", nil)
				m.runTx(1)
				m.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(created(1))
			},
			check: func(t *testing.T, acc *domain.Account) {
				assert.Equal(t, 1, acc.ID)
				assert.Equal(t, "alice@example.com", acc.Email)
				assert.Equal(t, "hashed", acc.PasswordHash)
				assert.Nil(t, acc.ReferredBy)
				assert.True(t, validate.IsReferralCode(acc.ReferralCode))
			},
		},
		{
			name:         "Registers with referrer and counts the registration",
			email:        "bob@example.com",
			referralCode: "4242424242",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "bob@example.com").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret123").Return("hashed", nil)
				m.accounts.EXPECT().FindByReferralCode(ctx, "4242424242").Return(referrer, nil)
				m.runTx(1)
				m.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(created(2))
				m.referrals.EXPECT().IncrementRegistrations(gomock.Any(), 3).Return(nil)
			},
			check: func(t *testing.T, acc *domain.Account) {
				if assert.NotNil(t, acc.ReferredBy) {
					assert.Equal(t, 3, *acc.ReferredBy)
				}
			},
		},
		{
			name:         "Unknown referral code is ignored",
			email:        "bob@example.com",
			referralCode: "4242424242",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "bob@example.com").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret123").Return("hashed", nil)
				m.accounts.EXPECT().FindByReferralCode(ctx, "4242424242").Return(nil, nil)
				m.runTx(1)
				m.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(created(2))
			},
			check: func(t *testing.T, acc *domain.Account) {
				assert.Nil(t, acc.ReferredBy)
			},
		},
		{
			name:         "Malformed referral code is not looked up",
			email:        "bob@example.com",
			referralCode: "not-a-code",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "bob@example.com").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret123").Return("hashed", nil)
				m.runTx(1)
				m.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(created(2))
			},
			check: func(t *testing.T, acc *domain.Account) {
				assert.Nil(t, acc.ReferredBy)
			},
		},
		{
			name:  "Email already registered",
			email: "alice@example.com",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(&domain.Account{ID: 1}, nil)
			},
			wantErr: ErrEmailTaken,
		},
		{
			name:  "Concurrent registration with the same email",
			email: "alice@example.com",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret123").Return("hashed", nil)
				m.runTx(1)
				m.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, &pgconn.PgError{Code: "23505", ConstraintName: emailConstraint})
			},
			wantErr: ErrEmailTaken,
		},
		{
			name:  "Referral code collision is regenerated",
			email: "alice@example.com",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret123").Return("hashed", nil)
				m.runTx(2)
				gomock.InOrder(
					m.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).
						Return(nil, &pgconn.PgError{Code: "23505", ConstraintName: referralCodeConstraint}),
					m.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(created(5)),
				)
			},
			check: func(t *testing.T, acc *domain.Account) {
				assert.Equal(t, 5, acc.ID)
			},
		},
		{
			name:         "Registration counter failure rolls back",
			email:        "bob@example.com",
			referralCode: "4242424242",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "bob@example.com").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret123").Return("hashed", nil)
				m.accounts.EXPECT().FindByReferralCode(ctx, "4242424242").Return(referrer, nil)
				m.runTx(1)
				m.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(created(2))
				m.referrals.EXPECT().IncrementRegistrations(gomock.Any(), 3).Return(domain.ErrAccountNotFound)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:  "Hashing failure",
			email: "alice@example.com",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret123").Return("", auth.ErrEmptyPassword)
			},
			wantErr: auth.ErrEmptyPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			acc, err := service.Register(ctx, "Alice", tt.email, "secret123", tt.referralCode)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, acc)
				return
			}
			assert.NoError(t, err)
			tt.check(t, acc)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	active := &domain.Account{ID: 1, PasswordHash: "hashed", IsActive: true}

	tests := []struct {
		name        string
		prepareMock func(m *mocks)
		wantErr     error
	}{
		{
			name: "Valid credentials",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(active, nil)
				m.hash.EXPECT().ComparePassword("hashed", "secret123").Return(true)
			},
		},
		{
			name: "Unknown email",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "Wrong password",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(active, nil)
				m.hash.EXPECT().ComparePassword("hashed", "secret123").Return(false)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "Inactive account",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(&domain.Account{ID: 1, PasswordHash: "hashed"}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "Storage error",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, errors.New("database error"))
			},
			wantErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			acc, err := service.Authenticate(ctx, "Alice@example.com", "secret123")

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, acc)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, active, acc)
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, m := NewMock(t)
	before := time.Now()

	m.jwt.EXPECT().GenerateJWT(7, gomock.Any()).DoAndReturn(func(id int, exp time.Time) (string, error) {
		assert.WithinDuration(t, before.Add(time.Hour), exp, time.Minute)
		return "token", nil
	})

	token, err := service.GenerateToken(7)

	assert.NoError(t, err)
	assert.Equal(t, "token", token)
}

func TestGenerateAPIKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a fresh key", func(t *testing.T) {
		service, m := NewMock(t)
		var stored string
		m.accounts.EXPECT().SetAPIKey(ctx, 7, gomock.Any()).DoAndReturn(func(ctx context.Context, id int, key string) error {
			stored = key
			return nil
		})

		key, err := service.GenerateAPIKey(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, stored, key)
		assert.True(t, strings.HasPrefix(key, apiKeyPrefix))
		assert.Len(t, key, len(apiKeyPrefix)+32)
	})

	t.Run("Unknown account", func(t *testing.T) {
		service, m := NewMock(t)
		m.accounts.EXPECT().SetAPIKey(ctx, 7, gomock.Any()).Return(domain.ErrAccountNotFound)

		key, err := service.GenerateAPIKey(ctx, 7)

		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.Empty(t, key)
	})
}

func TestAccountByAPIKey(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		key         string
		prepareMock func(m *mocks)
		wantID      int
		wantErr     error
	}{
		{
			name: "Active owner",
			key:  "sk_live",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByAPIKey(ctx, "sk_live").Return(&domain.Account{ID: 9, IsActive: true}, nil)
			},
			wantID: 9,
		},
		{
			name:        "Empty key",
			prepareMock: func(m *mocks) {},
			wantErr:     ErrInvalidAPIKey,
		},
		{
			name: "Unknown key",
			key:  "sk_nope",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByAPIKey(ctx, "sk_nope").Return(nil, nil)
			},
			wantErr: ErrInvalidAPIKey,
		},
		{
			name: "Inactive owner",
			key:  "sk_off",
			prepareMock: func(m *mocks) {
				m.accounts.EXPECT().FindByAPIKey(ctx, "sk_off").Return(&domain.Account{ID: 9}, nil)
			},
			wantErr: ErrInvalidAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			acc, err := service.AccountByAPIKey(ctx, tt.key)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantID, acc.ID)
		})
	}
}
