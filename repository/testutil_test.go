package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/database"
	"github.com/storyforge/storyboardbackend/models"
)

// setupTestDB opens a fresh in-memory database for one test. The DSN is
// derived from the test name so parallel tests never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.InitGormDB(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func createTestProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()
	project := &models.Project{Name: "Test Project"}
	require.NoError(t, NewProjectRepository(db).Create(project))
	return project
}

func createTestVideo(t *testing.T, db *gorm.DB, projectID uint) *models.Video {
	t.Helper()
	video := &models.Video{ProjectID: projectID, Title: "Test Video"}
	require.NoError(t, NewVideoRepository(db).Create(video))
	return video
}

func createTestImage(t *testing.T, db *gorm.DB) *models.Image {
	t.Helper()
	image := &models.Image{URL: "https://example.com/image.png", Provider: "mock"}
	require.NoError(t, NewImageRepository(db).Create(image))
	return image
}
