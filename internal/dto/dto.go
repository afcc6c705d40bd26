package dto

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/pkg/validate"
)

// Decode reads a JSON body into dst and checks its validate tags. Every failure is a validation error.
func Decode(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validationf("request body is empty")
		}
		return domain.Validationf("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return domain.Validationf("%s", validate.Describe(err))
	}
	return nil
}

type PageDTO struct {
	TotalPages  int `json:"totalPages" example:"3"`
	CurrentPage int `json:"currentPage" example:"1"`
	Total       int `json:"total" example:"120"`
}

func newPage[T any](p *domain.Page[T]) PageDTO {
	return PageDTO{
		TotalPages:  p.TotalPages,
		CurrentPage: p.Page,
		Total:       p.Total,
	}
}
