package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/database"
	"github.com/storyforge/storyboardbackend/models"
)

// ProjectRepository handles database operations for Project entities
type ProjectRepository struct {
	DB *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// Create creates a new project record in the database
func (r *ProjectRepository) Create(project *models.Project) error {
	now := time.Now().Unix()
	if project.CreatedAt == 0 {
		project.CreatedAt = now
	}
	if project.UpdatedAt == 0 {
		project.UpdatedAt = now
	}
	if project.ZipStatus == "" {
		project.ZipStatus = database.StatusNotRequired
	}

	err := r.DB.Create(project).Error
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", project.Name, err)
	}
	return nil
}

// ListAll retrieves all projects, newest first
func (r *ProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	err := r.DB.Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.DB.First(&project, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project by ID %d: %w", id, err)
	}
	return &project, nil
}

// Update updates an existing project's name and description
func (r *ProjectRepository) Update(projectID uint, name string, description *string) error {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if name != "" {
		updates["name"] = name
	}
	if description != nil {
		updates["description"] = *description
	}

	// updated_at alone still runs so a missing project is reported
	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update project ID %d: %w", projectID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// RequestZip updates project status to indicate a gallery zip generation is pending
func (r *ProjectRepository) RequestZip(projectID uint) error {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"zip_status":            database.StatusPending,
		"zip_last_requested_at": now,
		"zip_error":             gorm.Expr("NULL"),
		"updated_at":            now,
	}
	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to request zip for project ID %d: %w", projectID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkZipProcessing updates project status to indicate zip generation is in progress
func (r *ProjectRepository) MarkZipProcessing(projectID uint) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).Updates(map[string]interface{}{
		"zip_status": database.StatusProcessing,
		"updated_at": now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to mark zip processing for project ID %d: %w", projectID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetZipResult updates project with the result of a gallery zip task
func (r *ProjectRepository) SetZipResult(projectID uint, zipPath *string, zipSize *int64, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string

	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updates := map[string]interface{}{
		"zip_status": status,
		"zip_error":  errStr,
		"updated_at": now,
	}

	if status == database.StatusDone {
		updates["zip_path"] = zipPath
		updates["zip_size"] = zipSize
		updates["zip_last_generated_at"] = now
	}

	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set zip result for project ID %d: %w", projectID, result.Error)
	}

	return nil
}

// Delete removes a project and synchronously cascades to its videos,
// characters, and gallery rows.
func (r *ProjectRepository) Delete(id uint) error {
	var videoIDs []uint
	if err := r.DB.Model(&models.Video{}).Where("project_id = ?", id).Pluck("id", &videoIDs).Error; err != nil {
		return fmt.Errorf("failed to list videos for project ID %d: %w", id, err)
	}
	for _, videoID := range videoIDs {
		if err := purgeVideo(r.DB, videoID); err != nil {
			return fmt.Errorf("failed to cascade delete video %d: %w", videoID, err)
		}
	}

	var characterIDs []uint
	if err := r.DB.Model(&models.Character{}).Where("project_id = ?", id).Pluck("id", &characterIDs).Error; err != nil {
		return fmt.Errorf("failed to list characters for project ID %d: %w", id, err)
	}
	if len(characterIDs) > 0 {
		if err := r.DB.Where("character_id IN ?", characterIDs).Delete(&models.CharacterImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete character images for project ID %d: %w", id, err)
		}
		if err := r.DB.Where("project_id = ?", id).Delete(&models.Character{}).Error; err != nil {
			return fmt.Errorf("failed to delete characters for project ID %d: %w", id, err)
		}
	}

	if err := r.DB.Where("project_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete gallery rows for project ID %d: %w", id, err)
	}

	result := r.DB.Delete(&models.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete project ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
