// Package seed loads the demo data set used in local development. Every
// step is get-or-create, so running it twice changes nothing.
package seed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/auth"
	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

type Options struct {
	Location *time.Location
	Now      time.Time

	// AdminUsername/AdminPassword create a staff user when both are set.
	AdminUsername string
	AdminPassword string
}

type Result struct {
	Services     int
	Clients      int
	Pets         int
	Appointments int
	Users        int
}

var services = []models.Service{
	{Name: "Banho", Description: "Banho completo com produtos de qualidade", Price: 35.00, DurationMin: 60, Active: true},
	{Name: "Tosa", Description: "Tosa higiênica e estética", Price: 50.00, DurationMin: 90, Active: true},
	{Name: "Banho e Tosa", Description: "Pacote completo de banho e tosa", Price: 75.00, DurationMin: 120, Active: true},
	{Name: "Consulta Veterinária", Description: "Consulta com veterinário", Price: 100.00, DurationMin: 30, Active: true},
	{Name: "Vacinação", Description: "Aplicação de vacinas", Price: 80.00, DurationMin: 20, Active: true},
}

var clients = []models.Client{
	{Name: "Ana Silva", Email: "ana.silva@email.com", Phone: "(11) 99999-1111"},
	{Name: "Carlos Santos", Email: "carlos.santos@email.com", Phone: "(11) 99999-2222"},
	{Name: "Marina Oliveira", Email: "marina.oliveira@email.com", Phone: "(11) 99999-3333"},
	{Name: "João Pereira", Email: "joao.pereira@email.com", Phone: "(11) 99999-4444"},
}

type petSeed struct {
	name, species, breed, ownerEmail string
}

var pets = []petSeed{
	{"Rex", "dog", "Labrador", "ana.silva@email.com"},
	{"Luna", "dog", "Poodle", "ana.silva@email.com"},
	{"Thor", "dog", "Bulldog", "carlos.santos@email.com"},
	{"Mimi", "cat", "Siamês", "marina.oliveira@email.com"},
	{"Bob", "dog", "Vira-lata", "joao.pereira@email.com"},
}

type appointmentSeed struct {
	pet, service string
	dayOffset    int
	hour         int
	status       domain.Status
}

var appointments = []appointmentSeed{
	{"Rex", "Banho e Tosa", 0, 9, domain.StatusConfirmed},
	{"Luna", "Banho", 0, 11, domain.StatusScheduled},
	{"Thor", "Consulta Veterinária", 1, 10, domain.StatusScheduled},
	{"Mimi", "Vacinação", 1, 14, domain.StatusConfirmed},
}

func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var res Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serviceIDs := make(map[string]uint, len(services))
		for _, s := range services {
			row := s
			created, err := firstOrCreate(tx, &row, nil, "name = ?", s.Name)
			if err != nil {
				return err
			}
			serviceIDs[s.Name] = row.ID
			res.Services += created
		}

		clientIDs := make(map[string]uint, len(clients))
		for _, c := range clients {
			row := c
			created, err := firstOrCreate(tx, &row, nil, "email = ?", c.Email)
			if err != nil {
				return err
			}
			clientIDs[c.Email] = row.ID
			res.Clients += created
		}

		petIDs := make(map[string]uint, len(pets))
		for _, p := range pets {
			row := models.Pet{
				Name:     p.name,
				Species:  p.species,
				Breed:    p.breed,
				ClientID: clientIDs[p.ownerEmail],
			}
			created, err := firstOrCreate(tx, &row, []string{"Client"}, "name = ? AND client_id = ?", row.Name, row.ClientID)
			if err != nil {
				return err
			}
			petIDs[p.name] = row.ID
			res.Pets += created
		}

		today := opts.Now.In(opts.Location)
		for _, a := range appointments {
			day := today.AddDate(0, 0, a.dayOffset)
			at := time.Date(day.Year(), day.Month(), day.Day(), a.hour, 0, 0, 0, opts.Location).UTC()
			serviceID := serviceIDs[a.service]

			var count int64
			if err := tx.Model(&models.Appointment{}).
				Where("service_id = ? AND scheduled_at = ?", serviceID, at).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				slog.Info("seed: slot already taken", "service", a.service, "scheduled_at", at)
				continue
			}

			row := models.Appointment{
				PetID:       petIDs[a.pet],
				ServiceID:   serviceID,
				ScheduledAt: at,
				Status:      string(a.status),
			}
			if err := tx.Omit("Pet", "Service").Create(&row).Error; err != nil {
				return err
			}
			res.Appointments++
		}

		if opts.AdminUsername != "" && opts.AdminPassword != "" {
			var user models.User
			err := tx.Where("username = ?", opts.AdminUsername).First(&user).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				hash, err := auth.HashPassword(opts.AdminPassword)
				if err != nil {
					return err
				}
				user = models.User{Username: opts.AdminUsername, PasswordHash: hash}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				res.Users++
			case err != nil:
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// firstOrCreate loads the row matching query into dst or inserts dst,
// skipping the omit associations. It returns 1 when a row was inserted.
func firstOrCreate(tx *gorm.DB, dst any, omit []string, query string, args ...any) (int, error) {
	err := tx.Where(query, args...).First(dst).Error
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	q := tx
	if len(omit) > 0 {
		q = tx.Omit(omit...)
	}
	if err := q.Create(dst).Error; err != nil {
		return 0, err
	}
	return 1, nil
}
