package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

func TestAddToSetIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	frameRepo := NewFrameRepository(db)
	repo := NewImageRepository(db)

	frame := models.Frame{VideoID: video.ID}
	require.NoError(t, frameRepo.Create(&frame))
	image := createTestImage(t, db)

	require.NoError(t, repo.AddToSet(RelationFrame, frame.ID, image.ID, nil))
	// second add is a no-op, not an error
	require.NoError(t, repo.AddToSet(RelationFrame, frame.ID, image.ID, nil))

	images, err := repo.ListSetImages(RelationFrame, frame.ID)
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestAddToSetChecksOwnerAndImage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImageRepository(db)
	image := createTestImage(t, db)

	assert.ErrorIs(t, repo.AddToSet(RelationFrame, 999, image.ID, nil), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.AddToSet(RelationGallery, 999, image.ID, nil), gorm.ErrRecordNotFound)

	project := createTestProject(t, db)
	assert.ErrorIs(t, repo.AddToSet(RelationGallery, project.ID, 999, nil), gorm.ErrRecordNotFound)
}

func TestRemoveFromSetClearsFrameSelection(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	frameRepo := NewFrameRepository(db)
	repo := NewImageRepository(db)

	frame := models.Frame{VideoID: video.ID}
	require.NoError(t, frameRepo.Create(&frame))
	image := createTestImage(t, db)

	require.NoError(t, repo.AddToSet(RelationFrame, frame.ID, image.ID, nil))
	require.NoError(t, frameRepo.SelectImage(frame.ID, &image.ID))

	require.NoError(t, repo.RemoveFromSet(RelationFrame, frame.ID, image.ID))

	got, err := frameRepo.GetByID(frame.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SelectedImageID, "removing the selected image should clear the selection")

	// the image record itself survives
	_, err = repo.GetByID(image.ID)
	assert.NoError(t, err)
}

func TestRemoveFromSetNotAttached(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	repo := NewImageRepository(db)
	image := createTestImage(t, db)

	err := repo.RemoveFromSet(RelationGallery, project.ID, image.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMoveBetweenSets(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	contextRepo := NewContextRepository(db)
	repo := NewImageRepository(db)

	ctx, err := contextRepo.GetByVideoID(video.ID)
	require.NoError(t, err)
	image := createTestImage(t, db)

	require.NoError(t, repo.AddToSet(RelationContext, ctx.ID, image.ID, nil))

	source := "context"
	require.NoError(t, repo.MoveBetweenSets(RelationContext, ctx.ID, RelationGallery, project.ID, image.ID, &source))

	inContext, err := repo.InSet(RelationContext, ctx.ID, image.ID)
	require.NoError(t, err)
	assert.False(t, inContext)

	inGallery, err := repo.InSet(RelationGallery, project.ID, image.ID)
	require.NoError(t, err)
	assert.True(t, inGallery)
}

func TestCopyKeepsSourceMembership(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	chatRepo := NewChatRepository(db)
	repo := NewImageRepository(db)

	chat, err := chatRepo.GetDefaultByVideo(video.ID)
	require.NoError(t, err)
	image := createTestImage(t, db)

	require.NoError(t, repo.AddToSet(RelationChat, chat.ID, image.ID, nil))
	// a copy is just a second membership; the record is shared
	require.NoError(t, repo.AddToSet(RelationGallery, project.ID, image.ID, nil))

	inChat, err := repo.InSet(RelationChat, chat.ID, image.ID)
	require.NoError(t, err)
	assert.True(t, inChat)

	inGallery, err := repo.InSet(RelationGallery, project.ID, image.ID)
	require.NoError(t, err)
	assert.True(t, inGallery)
}

func TestDeleteImagePurgesMemberships(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	frameRepo := NewFrameRepository(db)
	repo := NewImageRepository(db)

	frame := models.Frame{VideoID: video.ID}
	require.NoError(t, frameRepo.Create(&frame))
	image := createTestImage(t, db)

	require.NoError(t, repo.AddToSet(RelationFrame, frame.ID, image.ID, nil))
	require.NoError(t, repo.AddToSet(RelationGallery, project.ID, image.ID, nil))

	require.NoError(t, repo.Delete(image.ID))

	var count int64
	require.NoError(t, db.Model(&models.FrameImage{}).Where("image_id = ?", image.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.GalleryImage{}).Where("image_id = ?", image.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err := repo.GetByID(image.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteImageClearsFrameSelection(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	frameRepo := NewFrameRepository(db)
	repo := NewImageRepository(db)

	frame := models.Frame{VideoID: video.ID}
	require.NoError(t, frameRepo.Create(&frame))
	image := createTestImage(t, db)

	require.NoError(t, repo.AddToSet(RelationFrame, frame.ID, image.ID, nil))
	require.NoError(t, frameRepo.SelectImage(frame.ID, &image.ID))

	require.NoError(t, repo.Delete(image.ID))

	got, err := frameRepo.GetByID(frame.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SelectedImageID)
}

func TestVideoDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	videoRepo := NewVideoRepository(db)
	chatRepo := NewChatRepository(db)
	frameRepo := NewFrameRepository(db)
	repo := NewImageRepository(db)

	chat, err := chatRepo.GetDefaultByVideo(video.ID)
	require.NoError(t, err)

	frame := models.Frame{VideoID: video.ID}
	require.NoError(t, frameRepo.Create(&frame))

	// message-owned image should be removed with the video
	msg := models.Message{ChatID: chat.ID, Role: "assistant", Content: "a castle"}
	require.NoError(t, chatRepo.CreateMessage(&msg))
	owned := models.Image{URL: "https://example.com/owned.png", Provider: "mock", MessageID: &msg.ID}
	require.NoError(t, repo.Create(&owned))
	require.NoError(t, repo.AddToSet(RelationChat, chat.ID, owned.ID, nil))
	require.NoError(t, repo.AddToSet(RelationFrame, frame.ID, owned.ID, nil))

	require.NoError(t, videoRepo.Delete(video.ID))

	_, err = repo.GetByID(owned.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = chatRepo.GetByID(chat.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	frames, err := frameRepo.ListByVideo(video.ID)
	require.NoError(t, err)
	assert.Empty(t, frames)

	_, err = NewContextRepository(db).GetByVideoID(video.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
