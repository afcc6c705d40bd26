package dto

import (
	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/service/referralservice"
)

type ReferralCountersDTO struct {
	Visits            int    `json:"visits" example:"40"`
	Registrations     int    `json:"registrations" example:"8"`
	Referrals         int    `json:"referrals" example:"2"`
	ConversionRate    string `json:"conversionRate" example:"25.00%"`
	TotalEarnings     string `json:"totalEarnings" example:"12.50"`
	AvailableEarnings string `json:"availableEarnings" example:"12.50"`
}

type ReferralStatsDTO struct {
	ReferralCode   string              `json:"referralCode" example:"4242424242"`
	ReferralLink   string              `json:"referralLink" example:"http://localhost:8080/ref/4242424242"`
	CommissionRate string              `json:"commissionRate" example:"5%"`
	MinimumPayout  string              `json:"minimumPayout" example:"10.00"`
	Stats          ReferralCountersDTO `json:"stats"`
}

func NewReferralStats(s *referralservice.Stats) ReferralStatsDTO {
	return ReferralStatsDTO{
		ReferralCode:   s.ReferralCode,
		ReferralLink:   s.ReferralLink,
		CommissionRate: s.CommissionRate.String() + "%",
		MinimumPayout:  domain.FormatMoney(s.MinimumPayout),
		Stats: ReferralCountersDTO{
			Visits:            s.Visits,
			Registrations:     s.Registrations,
			Referrals:         s.Referrals,
			ConversionRate:    domain.FormatMoney(s.ConversionRate) + "%",
			TotalEarnings:     domain.FormatMoney(s.TotalEarnings),
			AvailableEarnings: domain.FormatMoney(s.AvailableEarnings),
		},
	}
}

type SuccessDTO struct {
	Success bool `json:"success" example:"true"`
}
