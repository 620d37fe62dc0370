package models

import (
	"strings"
	"time"
)

// Choice is the input device a vote is cast for.
type Choice int16

const (
	// ChoiceNone is the zero value and never stored.
	ChoiceNone Choice = 0

	ChoiceKeyboard   Choice = 1
	ChoiceController Choice = 2
)

// Choices lists every valid choice in display order.
var Choices = []Choice{ChoiceKeyboard, ChoiceController}

// Valid reports whether c is one of the two votable values.
func (c Choice) Valid() bool {
	return c == ChoiceKeyboard || c == ChoiceController
}

// String returns the label used on the wire.
func (c Choice) String() string {
	switch c {
	case ChoiceKeyboard:
		return "kb"
	case ChoiceController:
		return "controller"
	default:
		return ""
	}
}

// ParseChoice accepts a label ("kb", "keyboard", "controller") or the legacy
// numeric form ("1", "2").
func ParseChoice(s string) (Choice, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kb", "keyboard", "1":
		return ChoiceKeyboard, true
	case "controller", "2":
		return ChoiceController, true
	}
	return ChoiceNone, false
}

// Vote is the single vote row of a user for a game.
// A retracted vote keeps its row with Deleted set, so (GameID, UserID) stays unique.
type Vote struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    int64     `gorm:"not null;uniqueIndex:unique_votes_game_id_user_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:unique_votes_game_id_user_id;index"`
	Choice    Choice    `gorm:"type:smallint;not null"`
	Deleted   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Game Game `gorm:"foreignKey:GameID;references:AppID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
