package dto

import "github.com/GlebRadaev/smmpanel/internal/domain"

type RegisterRequestDTO struct {
	Name         string `json:"name" validate:"required,max=100" example:"Alice"`
	Email        string `json:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Password     string `json:"password" validate:"required,min=6,max=72" example:"secret123"`
	ReferralCode string `json:"referralCode,omitempty" validate:"omitempty,max=16" example:"4242424242"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

type AccountDTO struct {
	ID           int    `json:"id" example:"1"`
	Name         string `json:"name" example:"Alice"`
	Email        string `json:"email" example:"alice@example.com"`
	Balance      string `json:"balance" example:"1000.00"`
	ReferralCode string `json:"referralCode" example:"4242424242"`
}

type AuthResponseDTO struct {
	Token   string     `json:"token"`
	Account AccountDTO `json:"user"`
}

type APIKeyResponseDTO struct {
	APIKey string `json:"apiKey" example:"sk_3f2a9c0d5b7e4e1f8a6b2c4d9e0f1a2b"`
}

func NewAuthResponse(token string, acc *domain.Account) AuthResponseDTO {
	return AuthResponseDTO{
		Token: token,
		Account: AccountDTO{
			ID:           acc.ID,
			Name:         acc.Name,
			Email:        acc.Email,
			Balance:      domain.FormatMoney(acc.Balance),
			ReferralCode: acc.ReferralCode,
		},
	}
}
