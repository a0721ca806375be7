package dto

import (
	"time"

	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

type AppointmentDTO struct {
	ID            uint      `json:"id"`
	PetID         uint      `json:"pet_id"`
	PetName       string    `json:"pet_name"`
	ServiceID     uint      `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	ClientName    string    `json:"client_name"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Status        string    `json:"status"`
	StatusDisplay string    `json:"status_display"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromAppointment expects Pet, Pet.Client and Service to be preloaded;
// missing relations just leave the names empty.
func FromAppointment(ap models.Appointment, loc *time.Location) AppointmentDTO {
	return AppointmentDTO{
		ID:            ap.ID,
		PetID:         ap.PetID,
		PetName:       ap.Pet.Name,
		ServiceID:     ap.ServiceID,
		ServiceName:   ap.Service.Name,
		ClientName:    ap.Pet.Client.Name,
		ScheduledAt:   ap.ScheduledAt.In(loc),
		Status:        ap.Status,
		StatusDisplay: domain.Status(ap.Status).Display(),
		Notes:         ap.Notes,
		CreatedAt:     ap.CreatedAt.In(loc),
		UpdatedAt:     ap.UpdatedAt.In(loc),
	}
}

func FromAppointments(aps []models.Appointment, loc *time.Location) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, FromAppointment(ap, loc))
	}
	return out
}
