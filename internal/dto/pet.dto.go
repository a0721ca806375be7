package dto

import (
	"time"

	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

const (
	SpeciesDog   = "dog"
	SpeciesCat   = "cat"
	SpeciesOther = "other"
)

var speciesDisplay = map[string]string{
	SpeciesDog:   "Cachorro",
	SpeciesCat:   "Gato",
	SpeciesOther: "Outro",
}

func ValidSpecies(s string) bool {
	_, ok := speciesDisplay[s]
	return ok
}

type PetDTO struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Species        string    `json:"species"`
	SpeciesDisplay string    `json:"species_display"`
	Breed          string    `json:"breed"`
	ClientID       uint      `json:"client_id"`
	ClientName     string    `json:"client_name"`
	Notes          string    `json:"notes"`
	HasPhoto       bool      `json:"has_photo"`
	RegisteredAt   time.Time `json:"registered_at"`
}

type PetDetailsDTO struct {
	Pet               PetDTO           `json:"pet"`
	TotalAppointments int              `json:"total_appointments"`
	Appointments      []AppointmentDTO `json:"appointments"`
}

func FromPet(p models.Pet, loc *time.Location) PetDTO {
	return PetDTO{
		ID:             p.ID,
		Name:           p.Name,
		Species:        p.Species,
		SpeciesDisplay: speciesDisplay[p.Species],
		Breed:          p.Breed,
		ClientID:       p.ClientID,
		ClientName:     p.Client.Name,
		Notes:          p.Notes,
		HasPhoto:       p.PhotoKey != "",
		RegisteredAt:   p.CreatedAt.In(loc),
	}
}

func FromPets(ps []models.Pet, loc *time.Location) []PetDTO {
	out := make([]PetDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPet(p, loc))
	}
	return out
}
