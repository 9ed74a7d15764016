// Package testutil opens throwaway databases for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrewpaige1/nodebook-web/config"
	"github.com/andrewpaige1/nodebook-web/models"
)

// OpenDB returns a migrated in-memory sqlite database private to the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a local user with the given nickname.
func CreateUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()

	user := &models.User{
		Subject:  "local|" + nickname,
		Nickname: nickname,
		Name:     strings.ToUpper(nickname[:1]) + nickname[1:],
		Email:    nickname + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateSet inserts a set owned by the user with one card per term; each
// card's definition is the term with a "def " prefix.
func CreateSet(t *testing.T, db *gorm.DB, owner *models.User, title string, public bool, terms ...string) *models.FlashcardSet {
	t.Helper()

	set := &models.FlashcardSet{
		Title:    title,
		UserID:   owner.ID,
		IsPublic: public,
		PublicID: gonanoid.Must(),
	}
	for i, term := range terms {
		set.Flashcards = append(set.Flashcards, models.Flashcard{
			PublicID:   gonanoid.Must(),
			Term:       term,
			Definition: "def " + term,
			Position:   i,
		})
	}
	require.NoError(t, db.Create(set).Error)
	return set
}
