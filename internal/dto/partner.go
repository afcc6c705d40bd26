package dto

import (
	"strconv"

	"github.com/GlebRadaev/smmpanel/internal/domain"
)

// Partner responses keep the provider wire shape: numbers travel as strings.

type PartnerServiceDTO struct {
	Service  int    `json:"service" example:"1"`
	Name     string `json:"name" example:"Instagram Followers"`
	Type     string `json:"type" example:"Default"`
	Category string `json:"category" example:"Instagram"`
	Rate     string `json:"rate" example:"10.00"`
	Min      string `json:"min" example:"100"`
	Max      string `json:"max" example:"10000"`
	Refill   bool   `json:"refill" example:"false"`
	Cancel   bool   `json:"cancel" example:"true"`
}

type PartnerAddDTO struct {
	Order int64 `json:"order" example:"10001"`
}

type PartnerStatusDTO struct {
	Charge     string `json:"charge" example:"50.00"`
	StartCount int    `json:"start_count" example:"0"`
	Status     string `json:"status" example:"Pending"`
	Remains    int    `json:"remains" example:"5000"`
}

func NewPartnerServices(services []domain.Service) []PartnerServiceDTO {
	res := make([]PartnerServiceDTO, 0, len(services))
	for _, s := range services {
		res = append(res, PartnerServiceDTO{
			Service:  s.ServiceID,
			Name:     s.Name,
			Type:     s.Type,
			Category: s.Category,
			Rate:     domain.FormatMoney(s.Rate),
			Min:      strconv.Itoa(s.Min),
			Max:      strconv.Itoa(s.Max),
			Refill:   s.Refill,
			Cancel:   s.Cancel,
		})
	}
	return res
}

func NewPartnerStatus(o *domain.Order) PartnerStatusDTO {
	return PartnerStatusDTO{
		Charge:     domain.FormatMoney(o.Charge),
		StartCount: o.StartCount,
		Status:     string(o.Status),
		Remains:    o.Remains,
	}
}
