package repository

import (
	"fmt"
	"sort"
	"time"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

// CharacterRepository handles per-project character bundles
type CharacterRepository struct {
	DB *gorm.DB
}

// NewCharacterRepository creates a new instance of CharacterRepository
func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{DB: db}
}

// Create creates a new character record
func (r *CharacterRepository) Create(character *models.Character) error {
	now := time.Now().Unix()
	if character.CreatedAt == 0 {
		character.CreatedAt = now
	}
	if character.UpdatedAt == 0 {
		character.UpdatedAt = now
	}

	if err := r.DB.Create(character).Error; err != nil {
		return fmt.Errorf("failed to create character %s: %w", character.Name, err)
	}
	return nil
}

// ListByProject retrieves a project's characters in natural name order
// ("Guard 2" before "Guard 10")
func (r *CharacterRepository) ListByProject(projectID uint) ([]models.Character, error) {
	var characters []models.Character
	err := r.DB.Where("project_id = ?", projectID).Find(&characters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list characters for project %d: %w", projectID, err)
	}
	sort.SliceStable(characters, func(a, b int) bool {
		return natsort.Compare(characters[a].Name, characters[b].Name)
	})
	return characters, nil
}

// GetByID retrieves a character by its ID
func (r *CharacterRepository) GetByID(id uint) (*models.Character, error) {
	var character models.Character
	err := r.DB.First(&character, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get character by ID %d: %w", id, err)
	}
	return &character, nil
}

// Update updates a character's name and notes
func (r *CharacterRepository) Update(characterID uint, name string, notes *string) error {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if name != "" {
		updates["name"] = name
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	// updated_at alone still runs so a missing character is reported
	result := r.DB.Model(&models.Character{}).Where("id = ?", characterID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update character ID %d: %w", characterID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Character{}).Where("id = ?", characterID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a character and its reference-image attachments
func (r *CharacterRepository) Delete(id uint) error {
	if err := r.DB.Where("character_id = ?", id).Delete(&models.CharacterImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete image attachments for character %d: %w", id, err)
	}

	result := r.DB.Delete(&models.Character{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete character ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
