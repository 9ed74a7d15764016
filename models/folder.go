package models

import "gorm.io/gorm"

// Folder groups study sets on a user's profile
type Folder struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`
	Name     string `gorm:"not null;size:100"`
	UserID   uint   `gorm:"not null;index"`
	User     User   `gorm:"foreignKey:UserID" json:"-"`

	FlashcardSets []FlashcardSet `gorm:"many2many:folder_sets;"`
}
