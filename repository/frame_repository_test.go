package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

func createFrames(t *testing.T, repo *FrameRepository, videoID uint, n int) []models.Frame {
	t.Helper()
	frames := make([]models.Frame, 0, n)
	for i := 0; i < n; i++ {
		frame := models.Frame{VideoID: videoID}
		require.NoError(t, repo.Create(&frame))
		frames = append(frames, frame)
	}
	return frames
}

func positions(t *testing.T, repo *FrameRepository, videoID uint) []int {
	t.Helper()
	frames, err := repo.ListByVideo(videoID)
	require.NoError(t, err)
	out := make([]int, len(frames))
	for i, f := range frames {
		out[i] = f.Position
	}
	return out
}

func frameIDs(t *testing.T, repo *FrameRepository, videoID uint) []uint {
	t.Helper()
	frames, err := repo.ListByVideo(videoID)
	require.NoError(t, err)
	out := make([]uint, len(frames))
	for i, f := range frames {
		out[i] = f.ID
	}
	return out
}

func TestFrameCreateAppendsAtEnd(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	repo := NewFrameRepository(db)

	frames := createFrames(t, repo, video.ID, 3)
	assert.Equal(t, 0, frames[0].Position)
	assert.Equal(t, 1, frames[1].Position)
	assert.Equal(t, 2, frames[2].Position)
	assert.Equal(t, []int{0, 1, 2}, positions(t, repo, video.ID))
}

func TestFrameDeleteRenumbers(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	repo := NewFrameRepository(db)

	frames := createFrames(t, repo, video.ID, 4)
	require.NoError(t, repo.Delete(frames[1].ID))

	assert.Equal(t, []int{0, 1, 2}, positions(t, repo, video.ID))
	assert.Equal(t, []uint{frames[0].ID, frames[2].ID, frames[3].ID}, frameIDs(t, repo, video.ID))
}

func TestFrameReorder(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	repo := NewFrameRepository(db)

	frames := createFrames(t, repo, video.ID, 4)

	// move first frame to the end
	require.NoError(t, repo.Reorder(frames[0].ID, 3))
	assert.Equal(t, []uint{frames[1].ID, frames[2].ID, frames[3].ID, frames[0].ID}, frameIDs(t, repo, video.ID))
	assert.Equal(t, []int{0, 1, 2, 3}, positions(t, repo, video.ID))

	// move it back to the front
	require.NoError(t, repo.Reorder(frames[0].ID, 0))
	assert.Equal(t, []uint{frames[0].ID, frames[1].ID, frames[2].ID, frames[3].ID}, frameIDs(t, repo, video.ID))
}

func TestFrameReorderClampsPosition(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	repo := NewFrameRepository(db)

	frames := createFrames(t, repo, video.ID, 3)

	require.NoError(t, repo.Reorder(frames[0].ID, 99))
	assert.Equal(t, []uint{frames[1].ID, frames[2].ID, frames[0].ID}, frameIDs(t, repo, video.ID))

	require.NoError(t, repo.Reorder(frames[0].ID, -5))
	assert.Equal(t, []uint{frames[0].ID, frames[1].ID, frames[2].ID}, frameIDs(t, repo, video.ID))
}

func TestFrameUpdateMissingIDWithNoFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFrameRepository(db)
	assert.ErrorIs(t, repo.Update(1234, nil, nil), gorm.ErrRecordNotFound)
}

func TestFrameUpdateNoFieldsKeepsValues(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	repo := NewFrameRepository(db)

	frame := createFrames(t, repo, video.ID, 1)[0]
	title := "establishing shot"
	require.NoError(t, repo.Update(frame.ID, &title, nil))

	require.NoError(t, repo.Update(frame.ID, nil, nil))
	got, err := repo.GetByID(frame.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Title)
	assert.Equal(t, title, *got.Title)
}

func TestFrameReorderNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFrameRepository(db)
	assert.ErrorIs(t, repo.Reorder(1234, 0), gorm.ErrRecordNotFound)
}

func TestFrameSelectImageRequiresMembership(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db)
	video := createTestVideo(t, db, project.ID)
	frameRepo := NewFrameRepository(db)
	imageRepo := NewImageRepository(db)

	frame := createFrames(t, frameRepo, video.ID, 1)[0]
	image := createTestImage(t, db)

	// not attached yet
	err := frameRepo.SelectImage(frame.ID, &image.ID)
	assert.ErrorIs(t, err, ErrImageNotInSet)

	require.NoError(t, imageRepo.AddToSet(RelationFrame, frame.ID, image.ID, nil))
	require.NoError(t, frameRepo.SelectImage(frame.ID, &image.ID))

	got, err := frameRepo.GetByID(frame.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SelectedImageID)
	assert.Equal(t, image.ID, *got.SelectedImageID)

	// clearing always works
	require.NoError(t, frameRepo.SelectImage(frame.ID, nil))
	got, err = frameRepo.GetByID(frame.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SelectedImageID)
}
