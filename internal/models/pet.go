package models

import "time"

type Pet struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:50;not null;index" json:"name"`
	Species string `gorm:"size:10;not null;index" json:"species"`
	Breed   string `gorm:"size:50" json:"breed"`
	Notes   string `gorm:"type:text" json:"notes"`

	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	PhotoKey string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
