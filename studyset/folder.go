package studyset

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-web/models"
)

var ErrFolderNotFound = errors.New("folder not found")

type FolderInput struct {
	Name string `validate:"required,max=100"`
}

func (s *Service) CreateFolder(ctx context.Context, ownerID uint, input FolderInput) (*models.Folder, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate folder id: %w", err)
	}

	folder := models.Folder{PublicID: publicID, Name: input.Name, UserID: ownerID}
	if err := s.db.WithContext(ctx).Create(&folder).Error; err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return &folder, nil
}

// FoldersForUser lists a user's folders with the sets the viewer may see.
func (s *Service) FoldersForUser(ctx context.Context, ownerID, viewerID uint) ([]models.Folder, error) {
	preload := func(db *gorm.DB) *gorm.DB {
		if ownerID != viewerID {
			return db.Where("is_public = ?", true)
		}
		return db
	}

	var folders []models.Folder
	err := s.db.WithContext(ctx).
		Preload("FlashcardSets", preload).
		Where("user_id = ?", ownerID).
		Order("name asc").
		Find(&folders).Error
	if err != nil {
		return nil, fmt.Errorf("list folders for user %d: %w", ownerID, err)
	}
	return folders, nil
}

// AddToFolder files a visible set into one of the viewer's folders.
func (s *Service) AddToFolder(ctx context.Context, viewerID uint, folderID, setID string) error {
	var folder models.Folder
	err := s.db.WithContext(ctx).Where("public_id = ?", folderID).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, folderID)
	}
	if err != nil {
		return fmt.Errorf("load folder %s: %w", folderID, err)
	}
	if folder.UserID != viewerID {
		return ErrForbidden
	}

	set, err := s.load(ctx, setID)
	if err != nil {
		return err
	}
	if err := visible(set, viewerID); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(&folder).Association("FlashcardSets").Append(&models.FlashcardSet{Model: gorm.Model{ID: set.ID}}); err != nil {
		return fmt.Errorf("add set %s to folder %s: %w", setID, folderID, err)
	}
	return nil
}
