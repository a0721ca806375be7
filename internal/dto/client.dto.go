package dto

import (
	"time"

	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

type ClientDTO struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registered_at"`
	TotalPets    int       `json:"total_pets"`
}

type ClientDetailsDTO struct {
	Client    ClientDTO `json:"client"`
	TotalPets int       `json:"total_pets"`
	Pets      []PetDTO  `json:"pets"`
}

// FromClient counts c.Pets, so preload them when total_pets matters.
func FromClient(c models.Client, loc *time.Location) ClientDTO {
	return ClientDTO{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		RegisteredAt: c.CreatedAt.In(loc),
		TotalPets:    len(c.Pets),
	}
}

func FromClients(cs []models.Client, loc *time.Location) []ClientDTO {
	out := make([]ClientDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromClient(c, loc))
	}
	return out
}
