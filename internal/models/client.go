package models

import "time"

// Cliente da loja, dono dos pets.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null;index" json:"name"`
	Email string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	Pets []Pet `json:"pets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
