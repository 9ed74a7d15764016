package models

import (
	"time"

	"gorm.io/gorm"
)

// FlashcardSet represents a study set: a titled, ordered collection of flashcards
type FlashcardSet struct {
	gorm.Model
	Title       string `gorm:"not null;size:100"`
	Description string `gorm:"size:1000"`
	UserID      uint   `gorm:"not null"`
	PublicID    string `gorm:"size:100;uniqueIndex"`
	User        User   `gorm:"foreignKey:UserID" json:"-"`

	Flashcards []Flashcard `gorm:"foreignKey:SetID"`

	IsPublic    bool       `gorm:"default:false"`
	LastStudied *time.Time `gorm:"default:null"`
}

// OwnedBy reports whether the user with the given internal ID owns the set.
func (s *FlashcardSet) OwnedBy(userID uint) bool {
	return userID != 0 && s.UserID == userID
}
