package models

import "time"

// The partial unique index is the storage-level guard against two active
// bookings for the same service at the same instant. The predicate avoids
// commas because gorm splits tag options on them.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PetID uint `gorm:"not null;index" json:"pet_id"`
	Pet   Pet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pet"`

	ServiceID uint    `gorm:"not null;uniqueIndex:idx_appointments_active_slot,where:status <> 'cancelled' AND status <> 'completed'" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	ScheduledAt time.Time `gorm:"not null;index;uniqueIndex:idx_appointments_active_slot,where:status <> 'cancelled' AND status <> 'completed'" json:"scheduled_at"`

	Status string `gorm:"size:20;not null;default:'scheduled';index" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
