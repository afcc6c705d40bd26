package dto

import "github.com/GlebRadaev/smmpanel/internal/domain"

type ServiceDTO struct {
	ServiceID   int    `json:"serviceId" example:"1"`
	Name        string `json:"name" example:"Instagram Followers"`
	Category    string `json:"category" example:"Instagram"`
	Type        string `json:"type" example:"Default"`
	Rate        string `json:"rate" example:"10.00"`
	Min         int    `json:"min" example:"100"`
	Max         int    `json:"max" example:"100000"`
	Description string `json:"description,omitempty"`
	Refill      bool   `json:"refill"`
	Cancel      bool   `json:"cancel"`
}

func NewService(s *domain.Service) ServiceDTO {
	return ServiceDTO{
		ServiceID:   s.ServiceID,
		Name:        s.Name,
		Category:    s.Category,
		Type:        s.Type,
		Rate:        domain.FormatMoney(s.Rate),
		Min:         s.Min,
		Max:         s.Max,
		Description: s.Description,
		Refill:      s.Refill,
		Cancel:      s.Cancel,
	}
}

func NewServices(services []domain.Service) []ServiceDTO {
	out := make([]ServiceDTO, 0, len(services))
	for i := range services {
		out = append(out, NewService(&services[i]))
	}
	return out
}
