package models

import (
	"gorm.io/gorm"
)

// Flashcard represents an individual term/definition pair
type Flashcard struct {
	gorm.Model
	PublicID   string `gorm:"size:100;uniqueIndex"`
	Term       string `gorm:"not null;size:200"`
	Definition string `gorm:"not null;size:1000"`
	Position   int    `gorm:"not null;default:0"`

	SetID        uint         `gorm:"not null;index"`
	FlashcardSet FlashcardSet `gorm:"foreignKey:SetID" json:"-"`
}
