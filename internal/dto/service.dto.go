package dto

import "github.com/BruksfildServices01/petshop-scheduler/internal/models"

type ServiceDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_min"`
	Active      bool    `json:"active"`
}

func FromService(s models.Service) ServiceDTO {
	return ServiceDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		DurationMin: s.DurationMin,
		Active:      s.Active,
	}
}

func FromServices(ss []models.Service) []ServiceDTO {
	out := make([]ServiceDTO, 0, len(ss))
	for _, s := range ss {
		out = append(out, FromService(s))
	}
	return out
}
