package authservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/GlebRadaev/smmpanel/pkg/auth"
	"github.com/GlebRadaev/smmpanel/pkg/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	apiKeyPrefix           = "sk_"
	referralCodeConstraint = "accounts_referral_code_key"
	emailConstraint        = "accounts_email_key"
	maxCodeAttempts        = 5
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAPIKey      = errors.New("invalid api key")
)

type Repo interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByAPIKey(ctx context.Context, key string) (*domain.Account, error)
	FindByReferralCode(ctx context.Context, code string) (*domain.Account, error)
	Create(ctx context.Context, acc *domain.Account) (*domain.Account, error)
	SetAPIKey(ctx context.Context, id int, key string) error
}

type ReferralRepo interface {
	IncrementRegistrations(ctx context.Context, referrerID int) error
}

type Service struct {
	accountRepo  Repo
	referralRepo ReferralRepo
	txManager    pg.TXManager
	hashService  auth.HashServiceInterface
	jwtService   auth.JWTServiceInterface
	tokenTTL     time.Duration
}

func New(repo Repo, referralRepo ReferralRepo, txManager pg.TXManager, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, tokenTTL time.Duration) *Service {
	return &Service{
		accountRepo:  repo,
		referralRepo: referralRepo,
		txManager:    txManager,
		hashService:  hashService,
		jwtService:   jwtService,
		tokenTTL:     tokenTTL,
	}
}

// Register creates an account. A referral code that does not resolve to an active account is ignored.
func (s *Service) Register(ctx context.Context, name, email, password, referralCode string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find account: ", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		zap.L().Info("account already exists", zap.String("email", email))
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}

	referrer, err := s.findReferrer(ctx, referralCode)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		acc := &domain.Account{
			Name:         strings.TrimSpace(name),
			Email:        email,
			PasswordHash: hashedPassword,
			ReferralCode: validate.NewReferralCode(),
		}
		if referrer != nil {
			acc.ReferredBy = &referrer.ID
		}

		err = s.txManager.Begin(ctx, func(ctx context.Context) error {
			if _, err := s.accountRepo.Create(ctx, acc); err != nil {
				return err
			}
			if referrer == nil {
				return nil
			}
			return s.referralRepo.IncrementRegistrations(ctx, referrer.ID)
		})
		switch {
		case err == nil:
			zap.L().Info("account successfully registered", zap.Int("account_id", acc.ID), zap.Bool("referred", referrer != nil))
			return acc, nil
		case pg.IsUniqueViolation(err, emailConstraint):
			return nil, ErrEmailTaken
		case pg.IsUniqueViolation(err, referralCodeConstraint) && attempt < maxCodeAttempts:
			zap.L().Debug("referral code collision, regenerating", zap.Int("attempt", attempt))
			continue
		default:
			zap.L().Error("can't create account: ", zap.Error(err))
			return nil, err
		}
	}
}

func (s *Service) findReferrer(ctx context.Context, code string) (*domain.Account, error) {
	code = strings.TrimSpace(code)
	if code == "" || !validate.IsReferralCode(code) {
		return nil, nil
	}
	referrer, err := s.accountRepo.FindByReferralCode(ctx, code)
	if err != nil {
		zap.L().Error("can't find referrer: ", zap.Error(err))
		return nil, err
	}
	if referrer == nil || !referrer.IsActive {
		return nil, nil
	}
	return referrer, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		zap.L().Error("can't find account: ", zap.Error(err))
		return nil, err
	}
	if acc == nil || !acc.IsActive || !s.hashService.ComparePassword(acc.PasswordHash, password) {
		zap.L().Info("invalid credentials", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("account successfully authenticated", zap.Int("account_id", acc.ID))
	return acc, nil
}

func (s *Service) GenerateToken(accountID int) (string, error) {
	token, err := s.jwtService.GenerateJWT(accountID, time.Now().Add(s.tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}

// GenerateAPIKey replaces the account's partner API key.
func (s *Service) GenerateAPIKey(ctx context.Context, accountID int) (string, error) {
	key := apiKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.accountRepo.SetAPIKey(ctx, accountID, key); err != nil {
		zap.L().Error("can't set api key: ", zap.Int("account_id", accountID), zap.Error(err))
		return "", err
	}
	zap.L().Info("api key generated", zap.Int("account_id", accountID))
	return key, nil
}

// AccountByAPIKey resolves the owner of a partner API key. Unknown keys and inactive owners are rejected alike.
func (s *Service) AccountByAPIKey(ctx context.Context, key string) (*domain.Account, error) {
	if key == "" {
		return nil, ErrInvalidAPIKey
	}
	acc, err := s.accountRepo.FindByAPIKey(ctx, key)
	if err != nil {
		zap.L().Error("can't find account by api key: ", zap.Error(err))
		return nil, err
	}
	if acc == nil || !acc.IsActive {
		return nil, ErrInvalidAPIKey
	}
	return acc, nil
}
