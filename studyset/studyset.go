// Package studyset is the query and mutation layer behind the study set
// pages: loading sets with their cards, the per-set actions (delete, combine,
// export) and folders.
package studyset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-web/models"
)

var (
	ErrNotFound          = errors.New("study set not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

type CardInput struct {
	Term       string `validate:"required,max=200"`
	Definition string `validate:"required,max=1000"`
}

type CreateInput struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"max=1000"`
	IsPublic    bool
	Cards       []CardInput `validate:"min=1,dive"`
}

type CombineInput struct {
	Title    string   `validate:"required,max=100"`
	OtherIDs []string `validate:"min=1,dive,required"`
}

type Service struct {
	db       *gorm.DB
	cache    *Cache
	validate *validator.Validate
	log      *zap.SugaredLogger
}

func NewService(db *gorm.DB, cache *Cache, log *zap.SugaredLogger) *Service {
	return &Service{
		db:       db,
		cache:    cache,
		validate: validator.New(),
		log:      log,
	}
}

func orderedCards(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, id asc")
}

func (s *Service) load(ctx context.Context, publicID string) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Flashcards", orderedCards).
		Where("public_id = ?", publicID).
		First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, publicID)
	}
	if err != nil {
		return nil, fmt.Errorf("load study set %s: %w", publicID, err)
	}
	return &set, nil
}

func visible(set *models.FlashcardSet, viewerID uint) error {
	if set.IsPublic || set.OwnedBy(viewerID) {
		return nil
	}
	return ErrForbidden
}

// ByID returns the set with its owner and ordered cards. Private sets are
// only visible to their owner.
func (s *Service) ByID(ctx context.Context, publicID string, viewerID uint) (*models.FlashcardSet, error) {
	set, err := s.cache.Fetch(ctx, publicID, func(ctx context.Context) (*models.FlashcardSet, error) {
		return s.load(ctx, publicID)
	})
	if err != nil {
		return nil, err
	}
	if err := visible(set, viewerID); err != nil {
		return nil, err
	}
	return set, nil
}

// Cached returns the set only if an earlier ByID already fetched it.
func (s *Service) Cached(publicID string, viewerID uint) (*models.FlashcardSet, bool) {
	set, ok := s.cache.Get(publicID)
	if !ok || visible(set, viewerID) != nil {
		return nil, false
	}
	return set, true
}

// ForUser lists the owner's sets; other viewers only see public ones.
func (s *Service) ForUser(ctx context.Context, ownerID, viewerID uint) ([]models.FlashcardSet, error) {
	query := s.db.WithContext(ctx).Preload("Flashcards", orderedCards).Where("user_id = ?", ownerID)
	if ownerID != viewerID {
		query = query.Where("is_public = ?", true)
	}

	var sets []models.FlashcardSet
	if err := query.Order("updated_at desc").Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("list sets for user %d: %w", ownerID, err)
	}

	// Lazy migration for public_id on each set
	for i := range sets {
		if sets[i].PublicID != "" {
			continue
		}
		newID, err := gonanoid.New()
		if err != nil {
			continue
		}
		sets[i].PublicID = newID
		if err := s.db.WithContext(ctx).Model(&sets[i]).Update("public_id", newID).Error; err != nil {
			s.log.Errorw("ForUser: failed to update public_id", "setID", sets[i].ID, "error", err)
		}
	}
	return sets, nil
}

func (s *Service) check(input interface{}) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func newCards(inputs []CardInput) ([]models.Flashcard, error) {
	cards := make([]models.Flashcard, len(inputs))
	for i, in := range inputs {
		publicID, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generate card id: %w", err)
		}
		cards[i] = models.Flashcard{
			PublicID:   publicID,
			Term:       in.Term,
			Definition: in.Definition,
			Position:   i,
		}
	}
	return cards, nil
}

// Create stores a new set and its cards in one transaction.
func (s *Service) Create(ctx context.Context, ownerID uint, input CreateInput) (*models.FlashcardSet, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	cards, err := newCards(input.Cards)
	if err != nil {
		return nil, err
	}
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate set id: %w", err)
	}

	set := models.FlashcardSet{
		Title:       input.Title,
		Description: input.Description,
		UserID:      ownerID,
		IsPublic:    input.IsPublic,
		PublicID:    publicID,
		Flashcards:  cards,
	}
	if err := s.db.WithContext(ctx).Create(&set).Error; err != nil {
		return nil, fmt.Errorf("create set: %w", err)
	}

	s.log.Infow("Create: created set", "publicID", publicID, "userID", ownerID, "cards", len(cards))
	return &set, nil
}

// Delete removes a set the viewer owns together with its cards.
func (s *Service) Delete(ctx context.Context, viewerID uint, publicID string) error {
	set, err := s.load(ctx, publicID)
	if err != nil {
		return err
	}
	if !set.OwnedBy(viewerID) {
		s.log.Infow("Delete: unauthorized delete attempt", "userID", viewerID, "publicID", publicID)
		return ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("set_id = ?", set.ID).Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM folder_sets WHERE flashcard_set_id = ?", set.ID).Error; err != nil {
			return err
		}
		return tx.Delete(set).Error
	})
	if err != nil {
		return fmt.Errorf("delete set %s: %w", publicID, err)
	}

	s.cache.Evict(publicID)
	s.log.Infow("Delete: deleted set", "publicID", publicID)
	return nil
}

// Combine creates a new set owned by the viewer holding the cards of the
// source set followed by those of each other set, in the order given. The
// viewer must own every set involved.
func (s *Service) Combine(ctx context.Context, viewerID uint, publicID string, input CombineInput) (*models.FlashcardSet, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	ids := append([]string{publicID}, input.OtherIDs...)
	seen := make(map[string]bool, len(ids))
	var inputs []CardInput
	isPublic := false
	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		set, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if !set.OwnedBy(viewerID) {
			s.log.Infow("Combine: unauthorized combine attempt", "userID", viewerID, "publicID", id)
			return nil, ErrForbidden
		}
		if i == 0 {
			isPublic = set.IsPublic
		}
		for _, card := range set.Flashcards {
			inputs = append(inputs, CardInput{Term: card.Term, Definition: card.Definition})
		}
	}

	if len(seen) < 2 {
		return nil, fmt.Errorf("%w: pick at least one other set", ErrInvalidInput)
	}

	return s.Create(ctx, viewerID, CreateInput{
		Title:    input.Title,
		IsPublic: isPublic,
		Cards:    inputs,
	})
}

// MarkStudied stamps the set when a review pass finishes.
func (s *Service) MarkStudied(ctx context.Context, publicID string) error {
	now := time.Now()
	err := s.db.WithContext(ctx).Model(&models.FlashcardSet{}).
		Where("public_id = ?", publicID).
		UpdateColumn("last_studied", &now).Error
	if err != nil {
		return fmt.Errorf("mark set %s studied: %w", publicID, err)
	}
	s.cache.Evict(publicID)
	return nil
}

// Stats summarizes a user's sets for the achievements tab.
type Stats struct {
	Sets        int64
	Cards       int64
	LastStudied *time.Time
}

func (s *Service) Stats(ctx context.Context, userID uint) (Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.FlashcardSet{}).Where("user_id = ?", userID).Count(&stats.Sets).Error; err != nil {
		return stats, fmt.Errorf("count sets: %w", err)
	}

	err := db.Model(&models.Flashcard{}).
		Joins("JOIN flashcard_sets ON flashcard_sets.id = flashcards.set_id AND flashcard_sets.deleted_at IS NULL").
		Where("flashcard_sets.user_id = ?", userID).
		Count(&stats.Cards).Error
	if err != nil {
		return stats, fmt.Errorf("count cards: %w", err)
	}

	var latest models.FlashcardSet
	result := db.Where("user_id = ? AND last_studied IS NOT NULL", userID).Order("last_studied desc").Limit(1).Find(&latest)
	if result.Error != nil {
		return stats, fmt.Errorf("find last studied: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		stats.LastStudied = latest.LastStudied
	}
	return stats, nil
}

// Public lists recent public sets, optionally filtered by a title search.
func (s *Service) Public(ctx context.Context, search string, limit int) ([]models.FlashcardSet, error) {
	query := s.db.WithContext(ctx).Preload("Flashcards", orderedCards).Where("is_public = ?", true)
	if search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var sets []models.FlashcardSet
	if err := query.Order("created_at desc").Limit(limit).Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("list public sets: %w", err)
	}
	return sets, nil
}
