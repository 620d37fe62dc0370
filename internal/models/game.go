package models

import "time"

// Game is a Steam app known to the catalog. AppID is assigned by Steam.
type Game struct {
	AppID     int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:500;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
