package models

import "time"

// User represents a Steam account that has logged in at least once.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	SteamID   string    `gorm:"size:100;unique;not null"`
	Nickname  string    `gorm:"size:1000;not null;default:''"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
