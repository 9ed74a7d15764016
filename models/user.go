package models

import "gorm.io/gorm"

// User represents a user in the system
type User struct {
	gorm.Model
	Subject      string `gorm:"uniqueIndex;not null;size:200"`
	Nickname     string `gorm:"unique;not null;size:100"`
	Name         string `gorm:"size:100"`
	Email        string `gorm:"size:200"`
	Image        string `gorm:"size:500"`
	PasswordHash string `gorm:"size:200" json:"-"`

	FlashcardSets []FlashcardSet `gorm:"foreignKey:UserID" json:",omitempty"`
	Folders       []Folder       `gorm:"foreignKey:UserID" json:",omitempty"`
}

// DisplayName falls back to the nickname when no full name is known.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Nickname
}

// Initial is the letter shown in place of a missing profile image.
func (u *User) Initial() string {
	for _, r := range u.DisplayName() {
		return string(r)
	}
	return "?"
}
