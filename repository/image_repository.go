package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/database"
	"github.com/storyforge/storyboardbackend/media"
	"github.com/storyforge/storyboardbackend/models"
)

// RelationKind names one of the five image relation sets.
type RelationKind string

const (
	RelationFrame     RelationKind = "frame"
	RelationContext   RelationKind = "context"
	RelationChat      RelationKind = "chat"
	RelationGallery   RelationKind = "gallery"
	RelationCharacter RelationKind = "character"
)

// IsValidRelationKind checks a string against the known relation sets
func IsValidRelationKind(kind string) bool {
	switch RelationKind(kind) {
	case RelationFrame, RelationContext, RelationChat, RelationGallery, RelationCharacter:
		return true
	default:
		return false
	}
}

// ImageRepository handles image rows, their asset-pipeline status columns,
// and membership bookkeeping across the five relation sets. Copy is an add
// into the target set; move is a remove followed by an add as two separate
// writes.
type ImageRepository struct {
	DB *gorm.DB
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{DB: db}
}

// Create inserts a new image record
func (r *ImageRepository) Create(image *models.Image) error {
	now := time.Now().Unix()
	if image.CreatedAt == 0 {
		image.CreatedAt = now
	}
	if image.DownloadStatus == "" {
		image.DownloadStatus = database.StatusPending
	}
	if image.ThumbnailStatus == "" {
		image.ThumbnailStatus = database.StatusPending
	}
	if image.MetadataStatus == "" {
		image.MetadataStatus = database.StatusPending
	}

	if err := r.DB.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetByID retrieves an image by its ID
func (r *ImageRepository) GetByID(id uint) (*models.Image, error) {
	var image models.Image
	err := r.DB.First(&image, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get image by ID %d: %w", id, err)
	}
	return &image, nil
}

// GetByIDs retrieves multiple images by ID
func (r *ImageRepository) GetByIDs(ids []uint) ([]models.Image, error) {
	if len(ids) == 0 {
		return []models.Image{}, nil
	}
	var images []models.Image
	err := r.DB.Where("id IN ?", ids).Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get images by IDs: %w", err)
	}
	return images, nil
}

// ListByMessage retrieves the images owned by a chat message
func (r *ImageRepository) ListByMessage(messageID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.DB.Where("message_id = ?", messageID).Order("id ASC").Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images for message %d: %w", messageID, err)
	}
	return images, nil
}

// Delete removes an image row along with its membership in every relation
// set. The stored asset files are the caller's concern.
func (r *ImageRepository) Delete(id uint) error {
	if _, err := r.GetByID(id); err != nil {
		return err
	}
	return purgeImages(r.DB, []uint{id})
}

// MarkTaskProcessing sets one of the asset task status columns to processing
func (r *ImageRepository) MarkTaskProcessing(imageID uint, taskStatusColumn string) error {
	switch taskStatusColumn {
	case "download_status", "thumbnail_status", "metadata_status":
	default:
		return fmt.Errorf("invalid task status column %q", taskStatusColumn)
	}
	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).
		Update(taskStatusColumn, database.StatusProcessing)
	if result.Error != nil {
		return fmt.Errorf("failed to mark %s processing for image %d: %w", taskStatusColumn, imageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateDownloadResult records the outcome of mirroring the remote image
// into the media store. On success the image URL is rewritten to the
// locally served path.
func (r *ImageRepository) UpdateDownloadResult(imageID uint, storagePath *string, localURL string, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string
	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updates := map[string]interface{}{
		"download_status":       status,
		"download_error":        errStr,
		"download_processed_at": now,
	}
	if status == database.StatusDone {
		updates["storage_path"] = storagePath
		if localURL != "" {
			updates["url"] = localURL
		}
	}

	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update download result for image %d: %w", imageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateThumbnailResult records the outcome of the thumbnail task
func (r *ImageRepository) UpdateThumbnailResult(imageID uint, thumbPath *string, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string
	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updates := map[string]interface{}{
		"thumbnail_status":       status,
		"thumbnail_error":        errStr,
		"thumbnail_processed_at": now,
	}
	if status == database.StatusDone {
		updates["thumbnail_path"] = thumbPath
	}

	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update thumbnail result for image %d: %w", imageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateMetadataResult records the outcome of the metadata task
func (r *ImageRepository) UpdateMetadataResult(imageID uint, meta *media.Metadata, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string
	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updates := map[string]interface{}{
		"metadata_status":       status,
		"metadata_error":        errStr,
		"metadata_processed_at": now,
	}
	if status == database.StatusDone && meta != nil {
		updates["width"] = meta.Width
		updates["height"] = meta.Height
	}

	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update metadata result for image %d: %w", imageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetImagesRequiringProcessing returns images with any asset task still pending
func (r *ImageRepository) GetImagesRequiringProcessing() ([]models.Image, error) {
	var images []models.Image
	err := r.DB.
		Where("download_status = ? OR thumbnail_status = ? OR metadata_status = ?",
			database.StatusPending, database.StatusPending, database.StatusPending).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images requiring processing: %w", err)
	}
	return images, nil
}

// AddToSet adds an image to the given relation set, checking that both the
// owner and the image exist first. Adding an image that is already in the
// set is a no-op. source is only recorded for the gallery set.
func (r *ImageRepository) AddToSet(kind RelationKind, ownerID, imageID uint, source *string) error {
	if _, err := r.GetByID(imageID); err != nil {
		return err
	}
	if err := r.checkOwnerExists(kind, ownerID); err != nil {
		return err
	}

	exists, err := r.InSet(kind, ownerID, imageID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	now := time.Now().Unix()
	var createErr error
	switch kind {
	case RelationFrame:
		createErr = r.DB.Create(&models.FrameImage{FrameID: ownerID, ImageID: imageID, AddedAt: now}).Error
	case RelationContext:
		createErr = r.DB.Create(&models.ContextImage{ContextID: ownerID, ImageID: imageID, AddedAt: now}).Error
	case RelationChat:
		createErr = r.DB.Create(&models.ChatImage{ChatID: ownerID, ImageID: imageID, AddedAt: now}).Error
	case RelationGallery:
		createErr = r.DB.Create(&models.GalleryImage{ProjectID: ownerID, ImageID: imageID, Source: source, AddedAt: now}).Error
	case RelationCharacter:
		createErr = r.DB.Create(&models.CharacterImage{CharacterID: ownerID, ImageID: imageID, AddedAt: now}).Error
	default:
		return fmt.Errorf("unknown relation kind %q", kind)
	}
	if createErr != nil {
		return fmt.Errorf("failed to add image %d to %s %d: %w", imageID, kind, ownerID, createErr)
	}
	return nil
}

// RemoveFromSet deletes the membership row. Removing a frame's currently
// selected image also clears the selection.
func (r *ImageRepository) RemoveFromSet(kind RelationKind, ownerID, imageID uint) error {
	var result *gorm.DB
	switch kind {
	case RelationFrame:
		result = r.DB.Where("frame_id = ? AND image_id = ?", ownerID, imageID).Delete(&models.FrameImage{})
	case RelationContext:
		result = r.DB.Where("context_id = ? AND image_id = ?", ownerID, imageID).Delete(&models.ContextImage{})
	case RelationChat:
		result = r.DB.Where("chat_id = ? AND image_id = ?", ownerID, imageID).Delete(&models.ChatImage{})
	case RelationGallery:
		result = r.DB.Where("project_id = ? AND image_id = ?", ownerID, imageID).Delete(&models.GalleryImage{})
	case RelationCharacter:
		result = r.DB.Where("character_id = ? AND image_id = ?", ownerID, imageID).Delete(&models.CharacterImage{})
	default:
		return fmt.Errorf("unknown relation kind %q", kind)
	}
	if result.Error != nil {
		return fmt.Errorf("failed to remove image %d from %s %d: %w", imageID, kind, ownerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if kind == RelationFrame {
		err := r.DB.Model(&models.Frame{}).
			Where("id = ? AND selected_image_id = ?", ownerID, imageID).
			Update("selected_image_id", gorm.Expr("NULL")).Error
		if err != nil {
			return fmt.Errorf("failed to clear selection on frame %d: %w", ownerID, err)
		}
	}
	return nil
}

// MoveBetweenSets removes the image from the source set and adds it to the
// target set. The two writes are sequential and not wrapped in a
// transaction; a crash in between leaves the image attached to neither
// set. The image row itself stays reachable by id.
func (r *ImageRepository) MoveBetweenSets(srcKind RelationKind, srcID uint, dstKind RelationKind, dstID, imageID uint, source *string) error {
	if err := r.RemoveFromSet(srcKind, srcID, imageID); err != nil {
		return err
	}
	return r.AddToSet(dstKind, dstID, imageID, source)
}

// InSet reports whether the image is currently a member of the set
func (r *ImageRepository) InSet(kind RelationKind, ownerID, imageID uint) (bool, error) {
	var count int64
	var err error
	switch kind {
	case RelationFrame:
		err = r.DB.Model(&models.FrameImage{}).Where("frame_id = ? AND image_id = ?", ownerID, imageID).Count(&count).Error
	case RelationContext:
		err = r.DB.Model(&models.ContextImage{}).Where("context_id = ? AND image_id = ?", ownerID, imageID).Count(&count).Error
	case RelationChat:
		err = r.DB.Model(&models.ChatImage{}).Where("chat_id = ? AND image_id = ?", ownerID, imageID).Count(&count).Error
	case RelationGallery:
		err = r.DB.Model(&models.GalleryImage{}).Where("project_id = ? AND image_id = ?", ownerID, imageID).Count(&count).Error
	case RelationCharacter:
		err = r.DB.Model(&models.CharacterImage{}).Where("character_id = ? AND image_id = ?", ownerID, imageID).Count(&count).Error
	default:
		return false, fmt.Errorf("unknown relation kind %q", kind)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership of image %d in %s %d: %w", imageID, kind, ownerID, err)
	}
	return count > 0, nil
}

// ListSetImages returns the images attached to the owner, oldest first
func (r *ImageRepository) ListSetImages(kind RelationKind, ownerID uint) ([]models.Image, error) {
	var imageIDs []uint
	var err error
	switch kind {
	case RelationFrame:
		err = r.DB.Model(&models.FrameImage{}).Where("frame_id = ?", ownerID).Order("added_at ASC, id ASC").Pluck("image_id", &imageIDs).Error
	case RelationContext:
		err = r.DB.Model(&models.ContextImage{}).Where("context_id = ?", ownerID).Order("added_at ASC, id ASC").Pluck("image_id", &imageIDs).Error
	case RelationChat:
		err = r.DB.Model(&models.ChatImage{}).Where("chat_id = ?", ownerID).Order("added_at ASC, id ASC").Pluck("image_id", &imageIDs).Error
	case RelationGallery:
		err = r.DB.Model(&models.GalleryImage{}).Where("project_id = ?", ownerID).Order("added_at ASC, id ASC").Pluck("image_id", &imageIDs).Error
	case RelationCharacter:
		err = r.DB.Model(&models.CharacterImage{}).Where("character_id = ?", ownerID).Order("added_at ASC, id ASC").Pluck("image_id", &imageIDs).Error
	default:
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list images for %s %d: %w", kind, ownerID, err)
	}

	images, err := r.GetByIDs(imageIDs)
	if err != nil {
		return nil, err
	}

	// preserve attachment order
	byID := make(map[uint]models.Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}
	ordered := make([]models.Image, 0, len(imageIDs))
	for _, id := range imageIDs {
		if img, ok := byID[id]; ok {
			ordered = append(ordered, img)
		}
	}
	return ordered, nil
}

// checkOwnerExists verifies the owning entity of a relation set exists
func (r *ImageRepository) checkOwnerExists(kind RelationKind, ownerID uint) error {
	var count int64
	var err error
	switch kind {
	case RelationFrame:
		err = r.DB.Model(&models.Frame{}).Where("id = ?", ownerID).Count(&count).Error
	case RelationContext:
		err = r.DB.Model(&models.Context{}).Where("id = ?", ownerID).Count(&count).Error
	case RelationChat:
		err = r.DB.Model(&models.Chat{}).Where("id = ?", ownerID).Count(&count).Error
	case RelationGallery:
		err = r.DB.Model(&models.Project{}).Where("id = ?", ownerID).Count(&count).Error
	case RelationCharacter:
		err = r.DB.Model(&models.Character{}).Where("id = ?", ownerID).Count(&count).Error
	default:
		return fmt.Errorf("unknown relation kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("failed to check %s %d: %w", kind, ownerID, err)
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
